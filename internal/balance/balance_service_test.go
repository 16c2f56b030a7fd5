package balance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/audit"
	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	mock_balance "go-leave/internal/balance/mock"
	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type balanceKey struct {
	userID    string
	leaveType string
	year      int
}

// memRepo keeps rows in maps; transactions are driven by sqlmock.
type memRepo struct {
	balances     map[balanceKey]*balance.LeaveBalance
	reservations map[string]*balance.Reservation
	listFn       func(ctx context.Context, userID string, year int) ([]balance.LeaveBalance, error)
	saveErr      error
	sumErr       error
}

func newMemRepo() *memRepo {
	return &memRepo{
		balances:     map[balanceKey]*balance.LeaveBalance{},
		reservations: map[string]*balance.Reservation{},
	}
}

func (r *memRepo) WithTx(*sql.Tx) balance.Repository { return r }

func (r *memRepo) FindBalance(_ context.Context, userID, leaveType string, year int) (*balance.LeaveBalance, error) {
	b, ok := r.balances[balanceKey{userID, leaveType, year}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) ListBalances(ctx context.Context, userID string, year int) ([]balance.LeaveBalance, error) {
	if r.listFn != nil {
		return r.listFn(ctx, userID, year)
	}
	var out []balance.LeaveBalance
	for k, b := range r.balances {
		if k.userID == userID && k.year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListBalancesByYear(_ context.Context, year int) ([]balance.LeaveBalance, error) {
	var out []balance.LeaveBalance
	for k, b := range r.balances {
		if k.year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) SumByLeaveType(_ context.Context, year int) ([]balance.LeaveTypeTotals, error) {
	if r.sumErr != nil {
		return nil, r.sumErr
	}
	byType := map[string]*balance.LeaveTypeTotals{}
	for k, b := range r.balances {
		if k.year != year {
			continue
		}
		t, ok := byType[k.leaveType]
		if !ok {
			t = &balance.LeaveTypeTotals{LeaveType: k.leaveType}
			byType[k.leaveType] = t
		}
		t.Users++
		t.TotalAllocated += b.TotalAllocated
		t.UsedDays += b.UsedDays
		t.CarryOverDays += b.CarryOverDays
		t.RemainingDays += b.RemainingDays
		t.ReservedDays += b.ReservedDays
	}
	var out []balance.LeaveTypeTotals
	for _, t := range byType {
		out = append(out, *t)
	}
	return out, nil
}

func (r *memRepo) EnsureBalance(_ context.Context, b *balance.LeaveBalance) error {
	k := balanceKey{b.UserID.String(), b.LeaveType, b.Year}
	if _, ok := r.balances[k]; !ok {
		cp := *b
		r.balances[k] = &cp
	}
	return nil
}

func (r *memRepo) LockBalance(ctx context.Context, userID, leaveType string, year int) (*balance.LeaveBalance, error) {
	return r.FindBalance(ctx, userID, leaveType, year)
}

func (r *memRepo) SaveBalance(_ context.Context, b *balance.LeaveBalance) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *b
	r.balances[balanceKey{b.UserID.String(), b.LeaveType, b.Year}] = &cp
	return nil
}

func (r *memRepo) CreateReservation(_ context.Context, res *balance.Reservation) error {
	cp := *res
	r.reservations[res.ID.String()] = &cp
	return nil
}

func (r *memRepo) LockReservation(_ context.Context, id string) (*balance.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *memRepo) UpdateReservationStatus(_ context.Context, id, status string) error {
	r.reservations[id].Status = status
	return nil
}

type recordingAudit struct {
	entries []audit.Entry
}

func (a *recordingAudit) Log(_ context.Context, e audit.Entry) {
	a.entries = append(a.entries, e)
}

func setupBalanceServiceTest(t *testing.T, opts ...balance.Option) (balance.Service, *memRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newMemRepo()
	opts = append([]balance.Option{balance.WithLogger(zap.NewNop())}, opts...)
	return balance.NewService(db, repo, opts...), repo, mock
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("missing row reads as the default grant", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		b, err := svc.GetBalance(ctx, userID, domain.LeaveTypeAnnual, 2026)

		require.NoError(t, err)
		assert.Equal(t, 20, b.TotalAllocated)
		assert.Equal(t, 20, b.RemainingDays)
		assert.Equal(t, 20, b.AvailableDays)
	})

	t.Run("missing row reads as zero without seeding", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t, balance.WithSeedDefaultGrant(false))

		b, err := svc.GetBalance(ctx, userID, domain.LeaveTypeAnnual, 2026)

		require.NoError(t, err)
		assert.Zero(t, b.RemainingDays)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.GetBalance(ctx, "not-a-uuid", domain.LeaveTypeAnnual, 2026)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)

		_, err = svc.GetBalance(ctx, userID, "SABBATICAL", 2026)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidLeaveType)

		_, err = svc.GetBalance(ctx, userID, domain.LeaveTypeAnnual, 0)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestService_ListBalances(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	t.Run("every leave type is listed", func(t *testing.T) {
		svc, repo, _ := setupBalanceServiceTest(t)
		repo.balances[balanceKey{uid.String(), domain.LeaveTypeSick, 2026}] = &balance.LeaveBalance{
			UserID: uid, LeaveType: domain.LeaveTypeSick, Year: 2026,
			TotalAllocated: 10, UsedDays: 4, RemainingDays: 6,
		}

		list, err := svc.ListBalances(ctx, uid.String(), 2026)

		require.NoError(t, err)
		require.Len(t, list, len(domain.LeaveTypes))
		for _, b := range list {
			if b.LeaveType == domain.LeaveTypeSick {
				assert.Equal(t, 6, b.RemainingDays)
				assert.Equal(t, 4, b.UsedDays)
			}
			if b.LeaveType == domain.LeaveTypeUnpaid {
				assert.Equal(t, 30, b.TotalAllocated)
			}
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo, _ := setupBalanceServiceTest(t)
		repo.listFn = func(context.Context, string, int) ([]balance.LeaveBalance, error) {
			return nil, errors.New("connection reset")
		}

		_, err := svc.ListBalances(ctx, uid.String(), 2026)

		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
	})

	t.Run("shared fetch ignores the caller's cancellation", func(t *testing.T) {
		svc, repo, _ := setupBalanceServiceTest(t)
		callerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		repo.listFn = func(fetchCtx context.Context, _ string, _ int) ([]balance.LeaveBalance, error) {
			cancel()
			return nil, fetchCtx.Err()
		}

		list, err := svc.ListBalances(callerCtx, uid.String(), 2026)

		require.NoError(t, err)
		assert.Len(t, list, len(domain.LeaveTypes))
	})
}

func TestService_Reserve(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	t.Run("success holds days", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		expectTx(t, mock, true)

		id, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeAnnual, Year: 2026, Days: 5})

		require.NoError(t, err)
		assert.Equal(t, balance.ReservationHeld, repo.reservations[id].Status)
		b := repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}]
		assert.Equal(t, 5, b.ReservedDays)
		assert.Equal(t, 20, b.RemainingDays)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance carries figures", func(t *testing.T) {
		svc, _, mock := setupBalanceServiceTest(t)
		expectTx(t, mock, false)

		_, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeEmergency, Year: 2026, Days: 4})

		require.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 422, httpErr.Status)
		assert.Equal(t, map[string]int{"remaining_days": 3, "available_days": 3, "requested_days": 4}, httpErr.Details)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive days", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeAnnual, Year: 2026})

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDays)
	})

	t.Run("begin failure is a storage error", func(t *testing.T) {
		svc, _, mock := setupBalanceServiceTest(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeAnnual, Year: 2026, Days: 1})

		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
	})

	t.Run("save failure rolls back", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		repo.saveErr = errors.New("disk full")
		expectTx(t, mock, false)

		_, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeAnnual, Year: 2026, Days: 1})

		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
		assert.Empty(t, repo.reservations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_Settle(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	reserve := func(t *testing.T, svc balance.Service, mock sqlmock.Sqlmock, days int) string {
		t.Helper()
		expectTx(t, mock, true)
		id, err := svc.Reserve(ctx, balance.ReserveRequest{UserID: uid.String(), LeaveType: domain.LeaveTypeAnnual, Year: 2026, Days: days})
		require.NoError(t, err)
		return id
	}

	t.Run("commit moves held days into used", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		id := reserve(t, svc, mock, 4)
		expectTx(t, mock, true)

		require.NoError(t, svc.Commit(ctx, id))

		b := repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}]
		assert.Equal(t, 4, b.UsedDays)
		assert.Equal(t, 0, b.ReservedDays)
		assert.Equal(t, 16, b.RemainingDays)
		assert.Equal(t, balance.ReservationCommitted, repo.reservations[id].Status)
	})

	t.Run("release restores availability", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		id := reserve(t, svc, mock, 4)
		expectTx(t, mock, true)

		require.NoError(t, svc.Release(ctx, id))

		b := repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}]
		assert.Equal(t, 0, b.UsedDays)
		assert.Equal(t, 0, b.ReservedDays)
		assert.Equal(t, 20, b.RemainingDays)
	})

	t.Run("repeat settlement is a no-op", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		id := reserve(t, svc, mock, 2)
		expectTx(t, mock, true)
		require.NoError(t, svc.Commit(ctx, id))
		expectTx(t, mock, true)

		require.NoError(t, svc.Commit(ctx, id))

		assert.Equal(t, 2, repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}].UsedDays)
	})

	t.Run("opposite settlement is rejected", func(t *testing.T) {
		svc, _, mock := setupBalanceServiceTest(t)
		id := reserve(t, svc, mock, 2)
		expectTx(t, mock, true)
		require.NoError(t, svc.Commit(ctx, id))
		expectTx(t, mock, false)

		err := svc.Release(ctx, id)

		assert.ErrorIs(t, err, balanceerrors.ErrReservationCommitted)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, mock := setupBalanceServiceTest(t)
		expectTx(t, mock, false)

		err := svc.Commit(ctx, uuid.NewString())

		assert.ErrorIs(t, err, balanceerrors.ErrReservationNotFound)
	})

	t.Run("malformed reservation id", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		assert.ErrorIs(t, svc.Release(ctx, "abc"), balanceerrors.ErrInvalidReservationID)
	})
}

func TestService_AdminSetAllocation(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	actorID := uuid.NewString()

	t.Run("overwrites and audits", func(t *testing.T) {
		rec := &recordingAudit{}
		svc, _, mock := setupBalanceServiceTest(t, balance.WithAuditLogger(rec))
		expectTx(t, mock, true)

		resp, err := svc.AdminSetAllocation(ctx, actorID, uid.String(), balance.SetAllocationRequest{
			LeaveType: domain.LeaveTypeAnnual, Year: 2026, TotalAllocated: 12, CarryOverDays: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 15, resp.RemainingDays)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, "LEAVE_BALANCE_ALLOCATION_SET", rec.entries[0].Action)
		assert.Equal(t, actorID, rec.entries[0].ActorID)
	})

	t.Run("below used days", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
			ID: uuid.New(), UserID: uid, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
			TotalAllocated: 20, UsedDays: 8, RemainingDays: 12,
		}
		expectTx(t, mock, false)

		_, err := svc.AdminSetAllocation(ctx, actorID, uid.String(), balance.SetAllocationRequest{
			LeaveType: domain.LeaveTypeAnnual, Year: 2026, TotalAllocated: 5,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrNegativeAllocation)
	})

	t.Run("below held days", func(t *testing.T) {
		svc, repo, mock := setupBalanceServiceTest(t)
		repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
			ID: uuid.New(), UserID: uid, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
			TotalAllocated: 20, RemainingDays: 20, ReservedDays: 6,
		}
		expectTx(t, mock, false)

		_, err := svc.AdminSetAllocation(ctx, actorID, uid.String(), balance.SetAllocationRequest{
			LeaveType: domain.LeaveTypeAnnual, Year: 2026, TotalAllocated: 4,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrAllocationBelowHolds)
	})

	t.Run("negative input", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.AdminSetAllocation(ctx, actorID, uid.String(), balance.SetAllocationRequest{
			LeaveType: domain.LeaveTypeAnnual, Year: 2026, TotalAllocated: -1,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrNegativeAllocation)
	})
}

func TestService_BulkSetAllocation(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	actorID := uuid.NewString()

	t.Run("applies every type in type order and audits once", func(t *testing.T) {
		rec := &recordingAudit{}
		svc, repo, mock := setupBalanceServiceTest(t, balance.WithAuditLogger(rec))
		expectTx(t, mock, true)

		resp, err := svc.BulkSetAllocation(ctx, actorID, uid.String(), balance.BulkSetAllocationRequest{
			Year: 2026,
			Balances: []balance.AllocationItem{
				{LeaveType: domain.LeaveTypeSick, TotalAllocated: 8},
				{LeaveType: domain.LeaveTypeAnnual, TotalAllocated: 22, CarryOverDays: 2},
			},
		})

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, domain.LeaveTypeAnnual, resp[0].LeaveType)
		assert.Equal(t, 24, resp[0].RemainingDays)
		assert.Equal(t, domain.LeaveTypeSick, resp[1].LeaveType)
		assert.Equal(t, 8, resp[1].RemainingDays)
		assert.Equal(t, 8, repo.balances[balanceKey{uid.String(), domain.LeaveTypeSick, 2026}].TotalAllocated)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, "LEAVE_BALANCE_ALLOCATION_BULK_SET", rec.entries[0].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one item below holds rolls the whole edit back", func(t *testing.T) {
		rec := &recordingAudit{}
		svc, repo, mock := setupBalanceServiceTest(t, balance.WithAuditLogger(rec))
		repo.balances[balanceKey{uid.String(), domain.LeaveTypeSick, 2026}] = &balance.LeaveBalance{
			ID: uuid.New(), UserID: uid, LeaveType: domain.LeaveTypeSick, Year: 2026,
			TotalAllocated: 10, RemainingDays: 10, ReservedDays: 6,
		}
		expectTx(t, mock, false)

		resp, err := svc.BulkSetAllocation(ctx, actorID, uid.String(), balance.BulkSetAllocationRequest{
			Year: 2026,
			Balances: []balance.AllocationItem{
				{LeaveType: domain.LeaveTypeAnnual, TotalAllocated: 30},
				{LeaveType: domain.LeaveTypeSick, TotalAllocated: 4},
			},
		})

		assert.ErrorIs(t, err, balanceerrors.ErrAllocationBelowHolds)
		assert.Nil(t, resp)
		assert.Empty(t, rec.entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("input errors open no transaction", func(t *testing.T) {
		tests := []struct {
			name  string
			items []balance.AllocationItem
			want  error
		}{
			{
				name: "duplicate type",
				items: []balance.AllocationItem{
					{LeaveType: domain.LeaveTypeAnnual, TotalAllocated: 10},
					{LeaveType: domain.LeaveTypeAnnual, TotalAllocated: 12},
				},
				want: balanceerrors.ErrDuplicateLeaveType,
			},
			{
				name:  "unknown type",
				items: []balance.AllocationItem{{LeaveType: "SABBATICAL", TotalAllocated: 10}},
				want:  balanceerrors.ErrInvalidLeaveType,
			},
			{
				name:  "negative carry over",
				items: []balance.AllocationItem{{LeaveType: domain.LeaveTypeSick, CarryOverDays: -1}},
				want:  balanceerrors.ErrNegativeAllocation,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _, mock := setupBalanceServiceTest(t)

				_, err := svc.BulkSetAllocation(ctx, actorID, uid.String(), balance.BulkSetAllocationRequest{Year: 2026, Balances: tt.items})

				assert.ErrorIs(t, err, tt.want)
				assert.NoError(t, mock.ExpectationsWereMet())
			})
		}
	})

	t.Run("empty edit", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.BulkSetAllocation(ctx, actorID, uid.String(), balance.BulkSetAllocationRequest{Year: 2026})

		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	})
}

func TestService_ListAllBalances(t *testing.T) {
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	t.Run("every active user in lister order", func(t *testing.T) {
		lister := mock_balance.NewMockUserLister(gomock.NewController(t))
		lister.EXPECT().ListActiveIDs(gomock.Any()).Return([]string{second.String(), first.String()}, nil)
		svc, repo, _ := setupBalanceServiceTest(t, balance.WithUserLister(lister))
		repo.balances[balanceKey{second.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
			UserID: second, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
			TotalAllocated: 25, UsedDays: 5, RemainingDays: 20,
		}
		repo.balances[balanceKey{second.String(), domain.LeaveTypeAnnual, 2025}] = &balance.LeaveBalance{
			UserID: second, LeaveType: domain.LeaveTypeAnnual, Year: 2025,
			TotalAllocated: 1, RemainingDays: 1,
		}

		resp, err := svc.ListAllBalances(ctx, 2026)

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, second.String(), resp[0].UserID)
		assert.Equal(t, first.String(), resp[1].UserID)
		for _, u := range resp {
			require.Len(t, u.Balances, len(domain.LeaveTypes))
			assert.Equal(t, domain.LeaveTypeAnnual, u.Balances[0].LeaveType)
		}
		assert.Equal(t, 25, resp[0].Balances[0].TotalAllocated)
		assert.Equal(t, 5, resp[0].Balances[0].UsedDays)
		assert.Equal(t, 20, resp[1].Balances[0].TotalAllocated, "unstored rows read as the default grant")
	})

	t.Run("lister failure", func(t *testing.T) {
		lister := mock_balance.NewMockUserLister(gomock.NewController(t))
		lister.EXPECT().ListActiveIDs(gomock.Any()).Return(nil, apperror.Storage(errors.New("timeout")))
		svc, _, _ := setupBalanceServiceTest(t, balance.WithUserLister(lister))

		_, err := svc.ListAllBalances(ctx, 2026)

		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
	})

	t.Run("without a user lister", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.ListAllBalances(ctx, 2026)

		assert.ErrorIs(t, err, balanceerrors.ErrUserListUnavailable)
	})

	t.Run("bad year", func(t *testing.T) {
		svc, _, _ := setupBalanceServiceTest(t)

		_, err := svc.ListAllBalances(ctx, 12)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestService_UtilizationStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates per type and lists unused types", func(t *testing.T) {
		svc, repo, _ := setupBalanceServiceTest(t)
		a, b := uuid.New(), uuid.New()
		repo.balances[balanceKey{a.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
			UserID: a, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
			TotalAllocated: 20, UsedDays: 5, RemainingDays: 15, ReservedDays: 2,
		}
		repo.balances[balanceKey{b.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
			UserID: b, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
			TotalAllocated: 20, UsedDays: 4, CarryOverDays: 5, RemainingDays: 21,
		}

		stats, err := svc.UtilizationStats(ctx, 2026)

		require.NoError(t, err)
		require.Len(t, stats, len(domain.LeaveTypes))
		annual := stats[0]
		assert.Equal(t, domain.LeaveTypeAnnual, annual.LeaveType)
		assert.Equal(t, 2, annual.Users)
		assert.Equal(t, 40, annual.TotalAllocated)
		assert.Equal(t, 9, annual.TotalUsed)
		assert.Equal(t, 5, annual.TotalCarryOver)
		assert.Equal(t, 36, annual.TotalRemaining)
		assert.Equal(t, 2, annual.TotalReserved)
		assert.Equal(t, 20.0, annual.UtilizationRate)
		for _, s := range stats[1:] {
			assert.Zero(t, s.Users, s.LeaveType)
			assert.Zero(t, s.UtilizationRate, s.LeaveType)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo, _ := setupBalanceServiceTest(t)
		repo.sumErr = errors.New("connection reset")

		_, err := svc.UtilizationStats(ctx, 2026)

		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
	})
}

func TestService_ResetForNewYear(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	rec := &recordingAudit{}
	svc, repo, mock := setupBalanceServiceTest(t, balance.WithAuditLogger(rec))
	repo.balances[balanceKey{uid.String(), domain.LeaveTypeAnnual, 2026}] = &balance.LeaveBalance{
		ID: uuid.New(), UserID: uid, LeaveType: domain.LeaveTypeAnnual, Year: 2026,
		TotalAllocated: 20, UsedDays: 12, RemainingDays: 8,
	}
	repo.balances[balanceKey{uid.String(), domain.LeaveTypeSick, 2026}] = &balance.LeaveBalance{
		ID: uuid.New(), UserID: uid, LeaveType: domain.LeaveTypeSick, Year: 2026,
		TotalAllocated: 10, RemainingDays: 10,
	}
	expectTx(t, mock, true)

	resp, err := svc.ResetForNewYear(ctx, "hr-1", uid.String(), 2027)

	require.NoError(t, err)
	require.Len(t, resp, len(domain.LeaveTypes))
	for _, b := range resp {
		switch b.LeaveType {
		case domain.LeaveTypeAnnual:
			assert.Equal(t, 5, b.CarryOverDays, "capped")
			assert.Equal(t, 25, b.RemainingDays)
		case domain.LeaveTypeSick:
			assert.Zero(t, b.CarryOverDays, "sick leave does not carry over")
			assert.Equal(t, 10, b.RemainingDays)
		}
	}
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "LEAVE_BALANCE_YEAR_RESET", rec.entries[0].Action)
}
