package blockchain

import (
	"github.com/children0001/inchain/chaincfg"
)

// RewardSchedule is the pure function of height that yields the scheduled
// block reward. It is consumed by reward accounting; its arithmetic is a
// collaborator concern.
type RewardSchedule interface {
	// RewardFor returns the reward amount a block at the provided height
	// should pay, excluding fees.
	RewardFor(height uint64) uint64
}

// halvingRewardSchedule pays the chain params' base reward, halved every
// RewardHalvingInterval blocks.
type halvingRewardSchedule struct {
	params *chaincfg.Params
}

// NewHalvingRewardSchedule returns the default reward schedule for the given
// chain params.
func NewHalvingRewardSchedule(params *chaincfg.Params) RewardSchedule {
	return &halvingRewardSchedule{params: params}
}

// RewardFor returns the reward amount a block at the provided height should
// pay. Equivalent to: baseReward / 2^(height/halvingInterval).
func (s *halvingRewardSchedule) RewardFor(height uint64) uint64 {
	if s.params.RewardHalvingInterval == 0 {
		return s.params.BaseReward
	}
	halvings := height / s.params.RewardHalvingInterval
	if halvings > 63 {
		return 0
	}
	return s.params.BaseReward >> halvings
}
