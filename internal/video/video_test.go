package video

import (
	"strings"
	"testing"

	"github.com/five82/uplift/internal/config"
	"github.com/five82/uplift/internal/ffprobe"
	"github.com/five82/uplift/internal/upscaler"
)

func newJob(t *testing.T, model string, width, height int, info *ffprobe.MediaInfo) *Video {
	t.Helper()
	cfg := config.NewConfig("in.mp4", "out.mp4")
	cfg.Model = model
	cfg.Width = width
	cfg.Height = height

	v, err := New(cfg, "in.mp4", "out.mp4", info)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func info720p() *ffprobe.MediaInfo {
	return &ffprobe.MediaInfo{Width: 1280, Height: 720, FrameRate: 24, FrameCount: 100}
}

func TestScaleFactorSelection(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		width     int
		height    int
		wantScale int
		wantSkip  bool
	}{
		{
			name:      "no target means source resolution and skip",
			model:     "realcugan",
			wantScale: 1,
			wantSkip:  true,
		},
		{
			name:      "target equal to source skips",
			model:     "realcugan",
			width:     1280,
			height:    720,
			wantScale: 1,
			wantSkip:  true,
		},
		{
			name:      "double resolution picks scale 2",
			model:     "realcugan",
			width:     2560,
			height:    1440,
			wantScale: 2,
		},
		{
			name:      "just above double picks scale 3",
			model:     "realcugan",
			width:     2561,
			wantScale: 3,
		},
		{
			name:      "quad resolution picks scale 4",
			model:     "realcugan",
			width:     5120,
			wantScale: 4,
		},
		{
			name:      "beyond quad caps at 4",
			model:     "realcugan",
			width:     7680,
			wantScale: 4,
		},
		{
			name:      "fixed model always runs at 4",
			model:     "realesrgan",
			width:     2560,
			wantScale: 4,
		},
		{
			name:      "fixed model with covered target still skips",
			model:     "realesrgan",
			width:     1280,
			height:    720,
			wantScale: 1,
			wantSkip:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newJob(t, tt.model, tt.width, tt.height, info720p())
			if v.Scale != tt.wantScale {
				t.Errorf("Scale = %d, want %d", v.Scale, tt.wantScale)
			}
			if v.SkipUpscale() != tt.wantSkip {
				t.Errorf("SkipUpscale() = %v, want %v", v.SkipUpscale(), tt.wantSkip)
			}
		})
	}
}

func TestTargetDimensionCompletion(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{"width only derives height", 2560, 0, 2560, 1440},
		{"height only derives width", 0, 1440, 2560, 1440},
		{"both on aspect kept", 2560, 1440, 2560, 1440},
		{"neither keeps source", 0, 0, 1280, 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newJob(t, "realcugan", tt.width, tt.height, info720p())
			if v.Width != tt.wantWidth || v.Height != tt.wantHeight {
				t.Errorf("dimensions = %dx%d, want %dx%d", v.Width, v.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestAspectRatioCorrection(t *testing.T) {
	// Requesting 2560x1000 on a 16:9 source over-specifies the width; the
	// width shrinks to match the source aspect.
	v := newJob(t, "realcugan", 2560, 1000, info720p())
	if v.Width != 1778 || v.Height != 1000 {
		t.Errorf("dimensions = %dx%d, want 1778x1000", v.Width, v.Height)
	}
	if len(v.Notes) == 0 {
		t.Error("adjusted resolution should add a user-visible note")
	}
	if !strings.Contains(v.Notes[0], "2560x1000") {
		t.Errorf("note = %q, want the requested dimensions mentioned", v.Notes[0])
	}

	// The other direction: too tall, height shrinks.
	v = newJob(t, "realcugan", 1920, 1440, info720p())
	if v.Width != 1920 || v.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", v.Width, v.Height)
	}
}

func TestJobCarriesStreamProperties(t *testing.T) {
	cfg := config.NewConfig("in.mp4", "out.mp4")
	cfg.Width = 2560
	cfg.DuplicateThreshold = 0.97
	cfg.Encoder = "libx265"
	cfg.Model = "realesr-anime"

	v, err := New(cfg, "in.mp4", "out.mp4", info720p())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if v.FrameRate != 24 {
		t.Errorf("FrameRate = %v, want 24", v.FrameRate)
	}
	if v.FrameCount != 100 {
		t.Errorf("FrameCount = %d, want 100", v.FrameCount)
	}
	if v.Encoder != "libx265" {
		t.Errorf("Encoder = %q", v.Encoder)
	}
	if v.DuplicateThreshold != 0.97 {
		t.Errorf("DuplicateThreshold = %v", v.DuplicateThreshold)
	}
	if v.Model != upscaler.ModelRealESRAnime {
		t.Errorf("Model = %v", v.Model)
	}
	if v.Frames == nil {
		t.Fatal("Frames counter must be initialized")
	}
	if v.Frames.Next() != 0 {
		t.Error("frame counter should start at 0 for a fresh job")
	}
}

func TestUnknownModelRejected(t *testing.T) {
	cfg := config.NewConfig("in.mp4", "out.mp4")
	cfg.Model = "waifu2x"

	if _, err := New(cfg, "in.mp4", "out.mp4", info720p()); err == nil {
		t.Error("New() with an unknown model should fail")
	}
}

func TestZeroDimensionInfoRejected(t *testing.T) {
	cfg := config.NewConfig("in.mp4", "out.mp4")
	if _, err := New(cfg, "in.mp4", "out.mp4", &ffprobe.MediaInfo{}); err == nil {
		t.Error("New() without source dimensions should fail")
	}
}
