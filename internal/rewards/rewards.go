// Package rewards implements the reward catalog and community challenges.
package rewards

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnknownReward      = errors.New("unknown reward")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownChallenge   = errors.New("unknown challenge")
)

// Reward is an item that can be bought with points.
type Reward struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// Challenge is a community goal users can sign up for.
type Challenge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

var catalog = []Reward{
	{Name: "Tree Planting Certificate", Cost: 500},
	{Name: "Reusable Water Bottle", Cost: 250},
	{Name: "Compost Bin", Cost: 750},
}

var challenges = []Challenge{
	{Name: "Neighborhood Cleanup", Description: "Collect most waste in neighborhood", Points: 200},
	{Name: "Recycling Champion", Description: "Report recyclables correctly", Points: 150},
}

// Ledger reads and debits point balances.
type Ledger interface {
	PointsOf(username string) int
	DeductPoints(ctx context.Context, username string, amount int) error
}

// Catalog returns the rewards in display order.
func Catalog() []Reward {
	out := make([]Reward, len(catalog))
	copy(out, catalog)
	return out
}

// Challenges returns the open challenges in display order.
func Challenges() []Challenge {
	out := make([]Challenge, len(challenges))
	copy(out, challenges)
	return out
}

// Lookup finds a reward by name.
func Lookup(name string) (Reward, bool) {
	for _, r := range catalog {
		if r.Name == name {
			return r, true
		}
	}
	return Reward{}, false
}

// Redeem debits the cost of rewardName from username.  Nothing is deducted
// when the balance does not cover the cost.
func Redeem(ctx context.Context, points Ledger, username, rewardName string) (Reward, error) {
	r, ok := Lookup(rewardName)
	if !ok {
		return Reward{}, fmt.Errorf("%w: %q", ErrUnknownReward, rewardName)
	}
	if have := points.PointsOf(username); have < r.Cost {
		return Reward{}, fmt.Errorf("%w: %s has %d, %q costs %d", ErrInsufficientPoints, username, have, r.Name, r.Cost)
	}
	if err := points.DeductPoints(ctx, username, r.Cost); err != nil {
		return Reward{}, err
	}
	return r, nil
}

// Join signs up for a challenge.  Membership is not recorded.
func Join(name string) (Challenge, error) {
	for _, c := range challenges {
		if c.Name == name {
			return c, nil
		}
	}
	return Challenge{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, name)
}
