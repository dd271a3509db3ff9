// Package calculator holds the pure share math for expense splitting.
package calculator

import "fmt"

// Share is one member's portion of an expense, owed to the payer.
type Share struct {
	MemberID string
	Amount   float64
}

// SplitEqually computes each non-payer member's share of an expense.
// Every member, including the payer, counts toward the divisor; the
// payer's own share is the portion they effectively paid for themselves
// and produces no debt. Returns one Share per non-payer member.
func SplitEqually(amount float64, members []string, payerID string) ([]Share, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("must have at least one member")
	}

	perMember := amount / float64(len(members))

	shares := make([]Share, 0, len(members)-1)
	for _, member := range members {
		if member == payerID {
			continue
		}
		shares = append(shares, Share{MemberID: member, Amount: perMember})
	}
	return shares, nil
}
