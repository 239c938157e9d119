package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenFlipsY(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	tests := []struct {
		name           string
		wx, wy         float32
		wantSX, wantSY float32
	}{
		{"origin at center", 0, 0, 640, 360},
		{"up is up", 0, 100, 640, 260},
		{"right is right", 100, 0, 740, 360},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sx, sy := cam.WorldToScreen(tc.wx, tc.wy)
			if math.Abs(float64(sx-tc.wantSX)) > 0.01 || math.Abs(float64(sy-tc.wantSY)) > 0.01 {
				t.Errorf("got (%f, %f), want (%f, %f)", sx, sy, tc.wantSX, tc.wantSY)
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)
	cam.CenterOn(150, -80)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInsideWorld(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.Pan(-5000, 5000)

	// Visible half extents are 640x360, so the center stops 640/360 from the edge
	if cam.X != -640 || cam.Y != -360 {
		t.Errorf("expected camera clamped to (-640, -360), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestFollowApproachesTarget(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.FollowRate = 0.5

	cam.Follow(100, 40)
	if cam.X != 50 || cam.Y != 20 {
		t.Errorf("after one step got (%f, %f), want (50, 20)", cam.X, cam.Y)
	}
	for i := 0; i < 30; i++ {
		cam.Follow(100, 40)
	}
	if math.Abs(float64(cam.X-100)) > 0.01 || math.Abs(float64(cam.Y-40)) > 0.01 {
		t.Errorf("camera did not converge: (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// MinZoom should be max(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestMinZoomCentersCamera(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// MinZoom should be max(800/1600, 600/800) = 0.75
	if math.Abs(float64(cam.MinZoom-0.75)) > 0.001 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	cam.CenterOn(0, 300)
	cam.SetZoom(cam.MinZoom)
	// The whole world height is visible, so there is no room to move vertically
	if cam.Y != 0 {
		t.Errorf("at min zoom camera Y = %f, want 0", cam.Y)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Visible range in world coords: (-640, -360) to (640, 360)
	if !cam.IsVisible(0, 0, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(1100, 600, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(-680, 0, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestWorldAngleToScreen(t *testing.T) {
	// A quarter turn counter-clockwise in the world is -90 degrees on screen
	if got := WorldAngleToScreen(math.Pi / 2); math.Abs(float64(got+90)) > 0.01 {
		t.Errorf("WorldAngleToScreen(pi/2) = %f, want -90", got)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.CenterOn(300, 200)
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
