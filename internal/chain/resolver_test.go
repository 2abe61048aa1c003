package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"clipforge/internal/domain"
)

type stubSiblings struct {
	exists    bool
	extreme   int
	found     bool
	existsErr error
	orderErr  error
	gotSide   domain.ExtendSide
}

func (s *stubSiblings) ParentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubSiblings) ExtremeChainOrder(ctx context.Context, parentID uuid.UUID, side domain.ExtendSide) (int, bool, error) {
	s.gotSide = side
	return s.extreme, s.found, s.orderErr
}

func TestResolve(t *testing.T) {
	parent := uuid.New()

	tests := []struct {
		name     string
		siblings stubSiblings
		side     domain.ExtendSide
		want     int
	}{
		{"no parent record starts fresh chain", stubSiblings{exists: false}, domain.ExtendEnd, 0},
		{"first end extension", stubSiblings{exists: true, found: false}, domain.ExtendEnd, 1},
		{"first start extension", stubSiblings{exists: true, found: false}, domain.ExtendStart, -1},
		{"end extension past sibling at 3", stubSiblings{exists: true, found: true, extreme: 3}, domain.ExtendEnd, 4},
		{"start extension past sibling at -2", stubSiblings{exists: true, found: true, extreme: -2}, domain.ExtendStart, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			siblings := tt.siblings
			got, err := Resolve(context.Background(), &siblings, parent, tt.side)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePropagatesErrors(t *testing.T) {
	parent := uuid.New()

	if _, err := Resolve(context.Background(), &stubSiblings{existsErr: errors.New("db down")}, parent, domain.ExtendEnd); err == nil {
		t.Fatal("Resolve ignored parent lookup error")
	}
	if _, err := Resolve(context.Background(), &stubSiblings{exists: true, orderErr: errors.New("db down")}, parent, domain.ExtendEnd); err == nil {
		t.Fatal("Resolve ignored sibling lookup error")
	}
}
