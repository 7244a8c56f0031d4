package flow

import (
	"errors"
	"fmt"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// ErrMissingParent is the kind of every MissingParentError.
var ErrMissingParent = errors.New("missing parent account")

// MissingParentError reports an account whose parent is absent from the balance list.
// It almost always means the balance query elided ancestors or used too narrow a filter.
type MissingParentError struct {
	Account string
	Parent  string
}

func (e *MissingParentError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("account %q is not a recognized top-level category and has no parent", e.Account)
	}
	return fmt.Sprintf("for account %q, parent account %q not found (was the report run with --no-elide?)", e.Account, e.Parent)
}

// Is matches ErrMissingParent.
func (e *MissingParentError) Is(target error) bool {
	return target == ErrMissingParent
}

// AccountChecker tests whether an account name is present in the balance list.
type AccountChecker interface {
	Exists(name string) bool
}

// Classifier decides the structural and directional role of an account.
type Classifier interface {
	IsTopLevel(name string) bool
	IsIncomeLike(name string) bool
}

// AccountSet is the set of account names seen in a balance list.
type AccountSet map[string]struct{}

// NewAccountSet collects the account names of balances.
func NewAccountSet(balances []model.Balance) AccountSet {
	s := make(AccountSet, len(balances))
	for _, b := range balances {
		s[b.Account] = struct{}{}
	}
	return s
}

// Exists reports whether name is in the set.
func (s AccountSet) Exists(name string) bool {
	_, ok := s[name]
	return ok
}

// Build converts a balance list into a flow graph with one edge per balance.
func Build(balances []model.Balance, classifier Classifier) (Graph, error) {
	return BuildWith(balances, classifier, NewAccountSet(balances))
}

// BuildWith is Build with an explicit set of known accounts.
func BuildWith(balances []model.Balance, classifier Classifier, known AccountChecker) (Graph, error) {
	edges := make([]Edge, 0, len(balances))
	for _, b := range balances {
		parent, err := parentNode(b.Account, classifier, known)
		if err != nil {
			return Graph{}, err
		}
		account := AccountNode(b.Account)

		// A negative balance always moves money from the account up to its parent:
		// for income that is ordinary inflow, for anything else a refund or payoff.
		source, target := parent, account
		if b.Amount.IsNegative() {
			source, target = account, parent
		}

		// Income normally flows up, everything else normally flows down.
		reversed := b.Amount.IsPositive()
		if !classifier.IsIncomeLike(b.Account) {
			reversed = b.Amount.IsNegative()
		}

		edges = append(edges, Edge{Source: source, Target: target, Value: b.Amount.Abs(), Reversed: reversed})
	}
	return Graph{Edges: edges}, nil
}

func parentNode(name string, classifier Classifier, known AccountChecker) (Node, error) {
	if classifier.IsTopLevel(name) {
		return Root, nil
	}
	parent := model.Parent(name)
	if parent == "" || !known.Exists(parent) {
		return Node{}, &MissingParentError{Account: name, Parent: parent}
	}
	return AccountNode(parent), nil
}
