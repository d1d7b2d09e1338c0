package metrics

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultHeightDrift is how many blocks a provider may trail before the
// report flags it. Two blocks is roughly 24 seconds on mainnet.
const DefaultHeightDrift = 2

// HashGroup lists the providers that reported the same block hash.
type HashGroup struct {
	Hash      common.Hash `json:"hash"`
	Providers []string    `json:"providers"`
}

// ConsistencyReport compares what several providers say about the chain.
type ConsistencyReport struct {
	Heights               map[string]uint64 `json:"heights,omitempty"`
	MaxHeight             uint64            `json:"maxHeight"`
	HeightVariance        uint64            `json:"heightVariance"`
	HeightConsensus       bool              `json:"heightConsensus"`
	AuthoritativeProvider string            `json:"authoritativeProvider,omitempty"`

	ReferenceHeight uint64      `json:"referenceHeight"`
	HashGroups      []HashGroup `json:"hashGroups"` // largest group first
	HashConsensus   bool        `json:"hashConsensus"`

	Consistent bool     `json:"consistent"`
	Issues     []string `json:"issues,omitempty"`
}

// ConsistencyChecker validates data consistency across providers.
type ConsistencyChecker struct {
	acceptableHeightDrift uint64
}

func NewConsistencyChecker(drift uint64) *ConsistencyChecker {
	return &ConsistencyChecker{acceptableHeightDrift: drift}
}

// Check compares heads and the hashes each provider returned for the block
// at referenceHeight. Providers missing from hashes are ignored for hash
// consensus; heights may be nil when only a single block is compared.
func (c *ConsistencyChecker) Check(
	heights map[string]uint64,
	hashes map[string]common.Hash,
	referenceHeight uint64,
) *ConsistencyReport {
	report := &ConsistencyReport{
		Heights:         heights,
		ReferenceHeight: referenceHeight,
		HeightConsensus: true,
		Consistent:      true,
	}

	if len(heights) > 0 {
		names := sortedKeys(heights)
		minHeight := heights[names[0]]
		for _, name := range names {
			h := heights[name]
			if h > report.MaxHeight || report.AuthoritativeProvider == "" {
				report.MaxHeight = h
				report.AuthoritativeProvider = name
			}
			minHeight = min(minHeight, h)
		}
		report.HeightVariance = report.MaxHeight - minHeight
		report.HeightConsensus = report.HeightVariance <= c.acceptableHeightDrift
		if !report.HeightConsensus {
			report.Consistent = false
			report.Issues = append(report.Issues,
				fmt.Sprintf("block height variance of %d blocks exceeds threshold", report.HeightVariance))
		}
	}

	report.HashGroups = GroupHashes(hashes)
	report.HashConsensus = len(report.HashGroups) <= 1
	if !report.HashConsensus {
		report.Consistent = false
		majority := len(report.HashGroups[0].Providers)
		for _, group := range report.HashGroups[1:] {
			if len(group.Providers) < majority {
				report.Issues = append(report.Issues,
					fmt.Sprintf("provider(s) %v report a different block hash at height %d (possible reorg or stale cache)",
						group.Providers, referenceHeight))
			}
		}
		if len(report.HashGroups[1].Providers) == majority {
			report.Issues = append(report.Issues,
				fmt.Sprintf("no majority block hash at height %d", referenceHeight))
		}
	}

	return report
}

// GroupHashes buckets providers by hash. Groups are ordered by size, then by
// hash, and providers within a group by name, so output is stable.
func GroupHashes(hashes map[string]common.Hash) []HashGroup {
	byHash := make(map[common.Hash][]string)
	for _, name := range sortedKeys(hashes) {
		h := hashes[name]
		byHash[h] = append(byHash[h], name)
	}

	groups := make([]HashGroup, 0, len(byHash))
	for h, providers := range byHash {
		groups = append(groups, HashGroup{Hash: h, Providers: providers})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Providers) != len(groups[j].Providers) {
			return len(groups[i].Providers) > len(groups[j].Providers)
		}
		return groups[i].Hash.Cmp(groups[j].Hash) < 0
	})
	return groups
}

// FormatHeightDrift describes drift in blocks and approximate wall time.
func FormatHeightDrift(drift uint64) string {
	if drift == 0 {
		return "all providers in sync"
	}

	seconds := drift * 12
	if seconds < 60 {
		return fmt.Sprintf("%d block(s) behind (~%ds)", drift, seconds)
	}
	return fmt.Sprintf("%d block(s) behind (~%dm)", drift, seconds/60)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
