package env

import "testing"

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaMacSaf  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		snap        Snapshot
		wantMobile  bool
		wantIOS     bool
		wantAndroid bool
	}{
		{
			name:       "iphone identifier",
			snap:       Snapshot{UserAgent: uaIPhone, ViewportWidth: 390},
			wantMobile: true,
			wantIOS:    true,
		},
		{
			name:        "android identifier",
			snap:        Snapshot{UserAgent: uaAndroid, ViewportWidth: 412},
			wantMobile:  true,
			wantAndroid: true,
		},
		{
			name:       "plain desktop",
			snap:       Snapshot{UserAgent: uaDesktop, ViewportWidth: 1920},
			wantMobile: false,
		},
		{
			name: "desktop with touch emulation keeps wide viewport",
			snap: Snapshot{
				UserAgent:     uaDesktop,
				CoarsePointer: true,
				NoHover:       true,
				TouchPoints:   5,
				ViewportWidth: 1920,
			},
			wantMobile: false,
		},
		{
			name: "unrecognized identifier with touch heuristics",
			snap: Snapshot{
				UserAgent:     "SomeOdd/1.0 Browser",
				CoarsePointer: true,
				NoHover:       true,
				TouchPoints:   5,
				ViewportWidth: 412,
			},
			wantMobile: true,
		},
		{
			name:       "ipados desktop identifier with touch points",
			snap:       Snapshot{UserAgent: uaMacSaf, TouchPoints: 5, ViewportWidth: 1024},
			wantMobile: true,
			wantIOS:    true,
		},
		{
			name:       "mac safari without touch stays desktop",
			snap:       Snapshot{UserAgent: uaMacSaf, ViewportWidth: 1440},
			wantMobile: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.snap)

			if got.IsMobile != tt.wantMobile {
				t.Errorf("IsMobile = %v, want %v", got.IsMobile, tt.wantMobile)
			}
			if got.IsDesktop == got.IsMobile {
				t.Errorf("IsDesktop = %v must be the complement of IsMobile = %v", got.IsDesktop, got.IsMobile)
			}
			if got.IsIOSLike != tt.wantIOS {
				t.Errorf("IsIOSLike = %v, want %v", got.IsIOSLike, tt.wantIOS)
			}
			if got.IsAndroidLike != tt.wantAndroid {
				t.Errorf("IsAndroidLike = %v, want %v", got.IsAndroidLike, tt.wantAndroid)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	snap := Snapshot{UserAgent: uaAndroid, CoarsePointer: true, NoHover: true, TouchPoints: 5, ViewportWidth: 412}
	first := Classify(snap)
	for i := 0; i < 10; i++ {
		if got := Classify(snap); got != first {
			t.Fatalf("Classify() not deterministic: %+v != %+v", got, first)
		}
	}
}
