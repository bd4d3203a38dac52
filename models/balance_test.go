package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type suiteBalanceTester struct {
	suite.Suite

	bal *Balance
}

func (s *suiteBalanceTester) SetupTest() {
	s.bal = NewBalance("USDT")
	s.Require().NoError(s.bal.PlusFunds(decimal.NewFromInt(100)))
}

func (s *suiteBalanceTester) assertBuckets(free, locked, staked string) {
	s.True(s.bal.Free.Equal(decimal.RequireFromString(free)), "free %s", s.bal.Free)
	s.True(s.bal.Locked.Equal(decimal.RequireFromString(locked)), "locked %s", s.bal.Locked)
	s.True(s.bal.Staked.Equal(decimal.RequireFromString(staked)), "staked %s", s.bal.Staked)
}

func (s *suiteBalanceTester) TestLockUnlockSymmetry() {
	s.NoError(s.bal.LockFunds(decimal.NewFromInt(40)))
	s.assertBuckets("60", "40", "0")

	s.NoError(s.bal.UnlockFunds(decimal.NewFromInt(40)))
	s.assertBuckets("100", "0", "0")
}

func (s *suiteBalanceTester) TestFailedMutationLeavesStateUntouched() {
	s.Error(s.bal.SubFunds(decimal.NewFromInt(101)))
	s.Error(s.bal.LockFunds(decimal.NewFromInt(101)))
	s.Error(s.bal.UnlockFunds(decimal.NewFromInt(1)))
	s.Error(s.bal.UnstakeFunds(decimal.NewFromInt(1)))
	s.Error(s.bal.PlusFunds(decimal.Zero))
	s.Error(s.bal.SubFunds(decimal.NewFromInt(-5)))

	s.assertBuckets("100", "0", "0")
}

func (s *suiteBalanceTester) TestUnlockAndSubSpendsLockedDirectly() {
	s.NoError(s.bal.LockFunds(decimal.NewFromInt(30)))
	s.NoError(s.bal.UnlockAndSubFunds(decimal.NewFromInt(30)))

	s.assertBuckets("70", "0", "0")
	s.True(s.bal.Total().Equal(decimal.NewFromInt(70)))
}

func (s *suiteBalanceTester) TestStakeRoundTrip() {
	s.NoError(s.bal.StakeFunds(decimal.NewFromInt(25)))
	s.assertBuckets("75", "0", "25")

	s.Error(s.bal.StakeFunds(decimal.NewFromInt(76)))

	s.NoError(s.bal.UnstakeFunds(decimal.NewFromInt(25)))
	s.assertBuckets("100", "0", "0")
	s.False(s.bal.IsZero())
}

func TestBalanceSuite(t *testing.T) {
	suite.Run(t, new(suiteBalanceTester))
}
