package metrics

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	hashA = common.HexToHash("0xfb3901b3b182eb620d7531bad297a280b8bf2844b72073f107d242da33db7de9")
	hashB = common.HexToHash("0x0a")
	hashC = common.HexToHash("0x0b")
)

func TestCheck(t *testing.T) {
	checker := NewConsistencyChecker(DefaultHeightDrift)

	tests := []struct {
		name          string
		heights       map[string]uint64
		hashes        map[string]common.Hash
		refHeight     uint64
		wantConsensus bool
		wantGroups    int
	}{
		{
			name:          "all_same_hash",
			heights:       map[string]uint64{"a": 100, "b": 100, "c": 100},
			hashes:        map[string]common.Hash{"a": hashA, "b": hashA, "c": hashA},
			refHeight:     100,
			wantConsensus: true,
			wantGroups:    1,
		},
		{
			name:          "one_different_hash",
			heights:       map[string]uint64{"a": 100, "b": 100, "c": 100},
			hashes:        map[string]common.Hash{"a": hashA, "b": hashA, "c": hashB},
			refHeight:     100,
			wantConsensus: false,
			wantGroups:    2,
		},
		{
			name:          "single_provider",
			heights:       map[string]uint64{"a": 100},
			hashes:        map[string]common.Hash{"a": hashA},
			refHeight:     100,
			wantConsensus: true,
			wantGroups:    1,
		},
		{
			name:          "failed_provider_excluded",
			heights:       map[string]uint64{"a": 100, "b": 100},
			hashes:        map[string]common.Hash{"a": hashA},
			refHeight:     100,
			wantConsensus: true,
			wantGroups:    1,
		},
		{
			name:          "all_different_hashes",
			heights:       map[string]uint64{"a": 100, "b": 100, "c": 100},
			hashes:        map[string]common.Hash{"a": hashA, "b": hashB, "c": hashC},
			refHeight:     100,
			wantConsensus: false,
			wantGroups:    3,
		},
		{
			name:          "no_providers",
			heights:       map[string]uint64{},
			hashes:        map[string]common.Hash{},
			wantConsensus: true,
			wantGroups:    0,
		},
		{
			name:          "hashes_only",
			hashes:        map[string]common.Hash{"a": hashA, "b": hashA},
			refHeight:     14727266,
			wantConsensus: true,
			wantGroups:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.Check(tt.heights, tt.hashes, tt.refHeight)

			if report.HashConsensus != tt.wantConsensus {
				t.Errorf("HashConsensus = %v, want %v", report.HashConsensus, tt.wantConsensus)
			}
			if len(report.HashGroups) != tt.wantGroups {
				t.Errorf("HashGroups count = %d, want %d", len(report.HashGroups), tt.wantGroups)
			}
			if report.ReferenceHeight != tt.refHeight {
				t.Errorf("ReferenceHeight = %d, want %d", report.ReferenceHeight, tt.refHeight)
			}
		})
	}
}

func TestCheckHeightVariance(t *testing.T) {
	checker := NewConsistencyChecker(DefaultHeightDrift)

	report := checker.Check(
		map[string]uint64{"a": 100, "b": 95},
		map[string]common.Hash{"a": hashA, "b": hashA},
		95,
	)

	if report.HeightConsensus {
		t.Error("HeightConsensus should be false when variance exceeds threshold")
	}
	if report.HeightVariance != 5 {
		t.Errorf("HeightVariance = %d, want 5", report.HeightVariance)
	}
	if report.MaxHeight != 100 {
		t.Errorf("MaxHeight = %d, want 100", report.MaxHeight)
	}
	if report.AuthoritativeProvider != "a" {
		t.Errorf("AuthoritativeProvider = %s, want 'a'", report.AuthoritativeProvider)
	}
	if report.Consistent {
		t.Error("Consistent should be false")
	}
}

func TestCheckIssuesReported(t *testing.T) {
	checker := NewConsistencyChecker(DefaultHeightDrift)

	report := checker.Check(
		map[string]uint64{"a": 100, "b": 100, "c": 100},
		map[string]common.Hash{"a": hashA, "b": hashA, "c": hashB},
		100,
	)

	if report.Consistent {
		t.Error("Consistent should be false when there's a hash mismatch")
	}
	if len(report.Issues) != 1 {
		t.Fatalf("Issues = %v, want one minority issue", report.Issues)
	}
	if got := report.HashGroups[0].Providers; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("majority group = %v, want [a b]", got)
	}
	if report.HashGroups[0].Hash != hashA {
		t.Errorf("majority hash = %s, want %s", report.HashGroups[0].Hash, hashA)
	}
}

func TestCheckSplitWithoutMajority(t *testing.T) {
	report := NewConsistencyChecker(DefaultHeightDrift).Check(nil, map[string]common.Hash{"a": hashA, "b": hashB}, 7)

	if report.HashConsensus {
		t.Error("HashConsensus should be false")
	}
	if len(report.Issues) != 1 {
		t.Errorf("Issues = %v, want a single no-majority issue", report.Issues)
	}
}

func TestFormatHeightDrift(t *testing.T) {
	tests := []struct {
		drift    uint64
		expected string
	}{
		{0, "all providers in sync"},
		{1, "1 block(s) behind (~12s)"},
		{2, "2 block(s) behind (~24s)"},
		{5, "5 block(s) behind (~1m)"},
		{10, "10 block(s) behind (~2m)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatHeightDrift(tt.drift); got != tt.expected {
				t.Errorf("FormatHeightDrift(%d) = %s, want %s", tt.drift, got, tt.expected)
			}
		})
	}
}
