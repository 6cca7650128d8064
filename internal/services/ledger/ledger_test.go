package ledger

import (
	"errors"
	"testing"

	"github.com/mihailawp-gif/tgqwen/internal/repos/users"
	"github.com/mihailawp-gif/tgqwen/internal/repos/users/userstest"
)

func TestDebit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     int64
		amount      int64
		wantBalance int64
		wantErr     error
	}{
		{name: "partial", balance: 100, amount: 40, wantBalance: 60},
		{name: "exact", balance: 100, amount: 100, wantBalance: 0},
		{name: "zero", balance: 100, amount: 0, wantBalance: 100},
		{name: "insufficient", balance: 100, amount: 150, wantBalance: 100, wantErr: users.ErrInsufficientBalance},
		{name: "negative", balance: 100, amount: -1, wantBalance: 100, wantErr: ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := userstest.NewMemory()
			id := repo.Add(users.User{Balance: tt.balance})

			got, err := New(repo).Debit(nil, id, tt.amount)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if got != tt.wantBalance {
					t.Fatalf("returned balance: want %d, got %d", tt.wantBalance, got)
				}
			}

			if b := repo.User(id).Balance; b != tt.wantBalance {
				t.Fatalf("stored balance: want %d, got %d", tt.wantBalance, b)
			}
		})
	}
}

func TestCredit(t *testing.T) {
	t.Parallel()

	repo := userstest.NewMemory()
	id := repo.Add(users.User{Balance: 5})
	l := New(repo)

	got, err := l.Credit(nil, id, 10)
	if err != nil || got != 15 {
		t.Fatalf("credit: got %d, %v", got, err)
	}

	_, err = l.Credit(nil, id, -3)
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("want ErrNegativeAmount, got %v", err)
	}

	_, err = l.Credit(nil, 999, 1)
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}

	if b := repo.User(id).Balance; b != 15 {
		t.Fatalf("stored balance: want 15, got %d", b)
	}
}
