package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go-leave/internal/audit"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/observability"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	WithTx(tx *sql.Tx) Service
	GetBalance(ctx context.Context, userID, leaveType string, year int) (BalanceResponse, error)
	ListBalances(ctx context.Context, userID string, year int) ([]BalanceResponse, error)
	CheckSufficient(ctx context.Context, userID, leaveType string, year, days int) (bool, error)
	Reserve(ctx context.Context, req ReserveRequest) (string, error)
	Commit(ctx context.Context, reservationID string) error
	Release(ctx context.Context, reservationID string) error
	ListAllBalances(ctx context.Context, year int) ([]UserBalancesResponse, error)
	UtilizationStats(ctx context.Context, year int) ([]UtilizationResponse, error)
	AdminSetAllocation(ctx context.Context, actorID, userID string, req SetAllocationRequest) (BalanceResponse, error)
	BulkSetAllocation(ctx context.Context, actorID, userID string, req BulkSetAllocationRequest) ([]BalanceResponse, error)
	ResetForNewYear(ctx context.Context, actorID, userID string, year int) ([]BalanceResponse, error)
}

// UserLister yields the users the all-balances view covers.
type UserLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type service struct {
	db           *sql.DB
	tx           *sql.Tx
	repo         Repository
	policies     Policies
	seedDefaults bool
	users        UserLister
	sf           *singleflight.Group
	metrics      *observability.Metrics
	audit        audit.Logger
	logger       *zap.Logger
}

type Option func(*service)

func WithPolicies(p Policies) Option {
	return func(s *service) { s.policies = p }
}

// WithSeedDefaultGrant controls whether a balance materialized on first use
// starts at the leave type's yearly grant (true) or at zero.
func WithSeedDefaultGrant(seed bool) Option {
	return func(s *service) { s.seedDefaults = seed }
}

func WithUserLister(u UserLister) Option {
	return func(s *service) { s.users = u }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func WithAuditLogger(a audit.Logger) Option {
	return func(s *service) { s.audit = a }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("balance.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, opts ...Option) Service {
	s := &service{
		db:           db,
		repo:         repo,
		policies:     DefaultPolicies,
		seedDefaults: true,
		sf:           &singleflight.Group{},
		audit:        audit.Nop{},
		logger:       zap.L().Named("balance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTx returns a ledger whose mutations join tx instead of opening their
// own transaction. Row locks taken through it are held until tx ends.
func (s *service) WithTx(tx *sql.Tx) Service {
	cp := *s
	cp.tx = tx
	return &cp
}

func (s *service) inTx(ctx context.Context, op string, fn func(repo Repository) error) error {
	if s.tx != nil {
		return fn(s.repo.WithTx(s.tx))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error(op+" begin tx failed", zap.Error(err))
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := fn(s.repo.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error(op+" commit failed", zap.Error(err))
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) GetBalance(ctx context.Context, userID, leaveType string, year int) (BalanceResponse, error) {
	uid, err := validateKey(userID, leaveType, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.repo.FindBalance(ctx, userID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return mapToResponse(s.newBalance(uid, leaveType, year)), nil
		}
		s.logger.Error("get balance failed", zap.String("user_id", userID), zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err, nil)
	}
	return mapToResponse(*b), nil
}

func (s *service) ListBalances(ctx context.Context, userID string, year int) ([]BalanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}
	if !validYear(year) {
		return nil, balanceerrors.ErrInvalidYear
	}

	// joined callers share one fetch, so it must outlive the first caller
	shared := context.WithoutCancel(ctx)
	key := fmt.Sprintf("balances:%s:%d", userID, year)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		stored, err := s.repo.ListBalances(shared, userID, year)
		if err != nil {
			return nil, mapRepositoryError(err, nil)
		}

		byType := make(map[string]LeaveBalance, len(stored))
		for _, b := range stored {
			byType[b.LeaveType] = b
		}

		resp := make([]BalanceResponse, 0, len(domain.LeaveTypes))
		for _, lt := range domain.LeaveTypes {
			b, ok := byType[lt]
			if !ok {
				b = s.newBalance(uid, lt, year)
			}
			resp = append(resp, mapToResponse(b))
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("list balances failed", zap.String("user_id", userID), zap.Int("year", year), zap.Error(err))
		return nil, err
	}

	// callers may mutate their copy
	shared := v.([]BalanceResponse)
	out := make([]BalanceResponse, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *service) CheckSufficient(ctx context.Context, userID, leaveType string, year, days int) (bool, error) {
	if days <= 0 {
		return false, balanceerrors.ErrInvalidDays
	}
	b, err := s.GetBalance(ctx, userID, leaveType, year)
	if err != nil {
		return false, err
	}
	return b.RemainingDays >= days, nil
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (string, error) {
	s.logger.Debug("reserve requested",
		zap.String("user_id", req.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("year", req.Year),
		zap.Int("days", req.Days),
	)

	uid, err := validateKey(req.UserID, req.LeaveType, req.Year)
	if err != nil {
		return "", err
	}
	if req.Days <= 0 {
		return "", balanceerrors.ErrInvalidDays
	}
	var requestID *uuid.UUID
	if req.RequestID != "" {
		rid, err := uuid.Parse(req.RequestID)
		if err != nil {
			return "", apperror.InvalidField("request id")
		}
		requestID = &rid
	}

	var reservationID uuid.UUID
	err = s.inTx(ctx, "reserve", func(repo Repository) error {
		b, err := s.lockOrMaterialize(ctx, repo, uid, req.LeaveType, req.Year)
		if err != nil {
			return err
		}

		if b.AvailableDays() < req.Days {
			return balanceerrors.InsufficientBalance(b.RemainingDays, b.AvailableDays(), req.Days)
		}

		b.ReservedDays += req.Days
		if err := repo.SaveBalance(ctx, b); err != nil {
			return mapRepositoryError(err, nil)
		}

		res := &Reservation{
			ID:        uuid.New(),
			UserID:    uid,
			LeaveType: req.LeaveType,
			Year:      req.Year,
			Days:      req.Days,
			Status:    ReservationHeld,
			RequestID: requestID,
		}
		if err := repo.CreateReservation(ctx, res); err != nil {
			return mapRepositoryError(err, nil)
		}
		reservationID = res.ID
		return nil
	})
	s.metrics.LedgerOperation("reserve", err)
	if err != nil {
		s.logFailure("reserve failed", err, zap.String("user_id", req.UserID), zap.String("leave_type", req.LeaveType))
		return "", err
	}

	s.logger.Info("reserve success",
		zap.String("reservation_id", reservationID.String()),
		zap.String("user_id", req.UserID),
		zap.Int("days", req.Days),
	)
	return reservationID.String(), nil
}

func (s *service) Commit(ctx context.Context, reservationID string) error {
	return s.settle(ctx, "commit", reservationID, ReservationCommitted)
}

func (s *service) Release(ctx context.Context, reservationID string) error {
	return s.settle(ctx, "release", reservationID, ReservationReleased)
}

// settle moves a HELD reservation to target. Repeating the same settlement
// is a no-op; settling the other way is an invalid transition.
func (s *service) settle(ctx context.Context, op, reservationID, target string) error {
	s.logger.Debug(op+" requested", zap.String("reservation_id", reservationID))

	if _, err := uuid.Parse(reservationID); err != nil {
		return balanceerrors.ErrInvalidReservationID
	}

	err := s.inTx(ctx, op, func(repo Repository) error {
		res, err := repo.LockReservation(ctx, reservationID)
		if err != nil {
			return mapRepositoryError(err, balanceerrors.ErrReservationNotFound)
		}

		switch res.Status {
		case target:
			return nil
		case ReservationCommitted:
			return balanceerrors.ErrReservationCommitted
		case ReservationReleased:
			return balanceerrors.ErrReservationReleased
		}

		b, err := repo.LockBalance(ctx, res.UserID.String(), res.LeaveType, res.Year)
		if err != nil {
			return mapRepositoryError(err, balanceerrors.ErrBalanceNotFound)
		}

		b.ReservedDays -= res.Days
		if target == ReservationCommitted {
			b.UsedDays += res.Days
		}
		b.recompute()
		if !b.valid() {
			s.logger.Error(op+" would break balance invariant",
				zap.String("reservation_id", reservationID),
				zap.Int("remaining_days", b.RemainingDays),
				zap.Int("reserved_days", b.ReservedDays),
			)
			return balanceerrors.ErrNegativeAllocation
		}

		if err := repo.SaveBalance(ctx, b); err != nil {
			return mapRepositoryError(err, nil)
		}
		if err := repo.UpdateReservationStatus(ctx, reservationID, target); err != nil {
			return mapRepositoryError(err, nil)
		}
		return nil
	})
	s.metrics.LedgerOperation(op, err)
	if err != nil {
		s.logFailure(op+" failed", err, zap.String("reservation_id", reservationID))
		return err
	}

	s.logger.Info(op+" success", zap.String("reservation_id", reservationID))
	return nil
}

func (s *service) AdminSetAllocation(ctx context.Context, actorID, userID string, req SetAllocationRequest) (BalanceResponse, error) {
	if req.Year == 0 {
		req.Year = time.Now().UTC().Year()
	}
	s.logger.Debug("set allocation requested",
		zap.String("actor_id", actorID),
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("year", req.Year),
	)

	uid, err := validateKey(userID, req.LeaveType, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}
	if req.TotalAllocated < 0 || req.CarryOverDays < 0 {
		return BalanceResponse{}, balanceerrors.ErrNegativeAllocation
	}

	var updated LeaveBalance
	err = s.inTx(ctx, "set allocation", func(repo Repository) error {
		b, err := s.applyAllocation(ctx, repo, uid, req.Year, AllocationItem{
			LeaveType:      req.LeaveType,
			TotalAllocated: req.TotalAllocated,
			CarryOverDays:  req.CarryOverDays,
		})
		if err != nil {
			return err
		}
		updated = *b
		return nil
	})
	s.metrics.LedgerOperation("set_allocation", err)
	if err != nil {
		s.logFailure("set allocation failed", err, zap.String("user_id", userID), zap.String("leave_type", req.LeaveType))
		return BalanceResponse{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "LEAVE_BALANCE_ALLOCATION_SET",
		ActorID: actorID,
		Message: "leave allocation overwritten",
		Meta: map[string]any{
			"user_id":         userID,
			"leave_type":      req.LeaveType,
			"year":            req.Year,
			"total_allocated": req.TotalAllocated,
			"carry_over_days": req.CarryOverDays,
		},
	})
	s.logger.Info("set allocation success",
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("remaining_days", updated.RemainingDays),
	)
	return mapToResponse(updated), nil
}

func (s *service) BulkSetAllocation(ctx context.Context, actorID, userID string, req BulkSetAllocationRequest) ([]BalanceResponse, error) {
	if req.Year == 0 {
		req.Year = time.Now().UTC().Year()
	}
	s.logger.Debug("bulk set allocation requested",
		zap.String("actor_id", actorID),
		zap.String("user_id", userID),
		zap.Int("year", req.Year),
		zap.Int("items", len(req.Balances)),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}
	if !validYear(req.Year) {
		return nil, balanceerrors.ErrInvalidYear
	}
	if len(req.Balances) == 0 {
		return nil, apperror.InvalidField("leave balances")
	}
	byType := make(map[string]AllocationItem, len(req.Balances))
	for _, item := range req.Balances {
		if !domain.IsValidLeaveType(item.LeaveType) {
			return nil, balanceerrors.ErrInvalidLeaveType
		}
		if item.TotalAllocated < 0 || item.CarryOverDays < 0 {
			return nil, balanceerrors.ErrNegativeAllocation
		}
		if _, dup := byType[item.LeaveType]; dup {
			return nil, balanceerrors.ErrDuplicateLeaveType
		}
		byType[item.LeaveType] = item
	}

	resp := make([]BalanceResponse, 0, len(byType))
	err = s.inTx(ctx, "bulk set allocation", func(repo Repository) error {
		// fixed type order keeps row locks ordered across concurrent edits
		for _, lt := range domain.LeaveTypes {
			item, ok := byType[lt]
			if !ok {
				continue
			}
			b, err := s.applyAllocation(ctx, repo, uid, req.Year, item)
			if err != nil {
				return err
			}
			resp = append(resp, mapToResponse(*b))
		}
		return nil
	})
	s.metrics.LedgerOperation("bulk_set_allocation", err)
	if err != nil {
		s.logFailure("bulk set allocation failed", err, zap.String("user_id", userID), zap.Int("year", req.Year))
		return nil, err
	}

	items := make([]map[string]any, 0, len(resp))
	for _, b := range resp {
		items = append(items, map[string]any{
			"leave_type":      b.LeaveType,
			"total_allocated": b.TotalAllocated,
			"carry_over_days": b.CarryOverDays,
		})
	}
	s.audit.Log(ctx, audit.Entry{
		Action:  "LEAVE_BALANCE_ALLOCATION_BULK_SET",
		ActorID: actorID,
		Message: "leave allocations overwritten",
		Meta:    map[string]any{"user_id": userID, "year": req.Year, "items": items},
	})
	s.logger.Info("bulk set allocation success", zap.String("user_id", userID), zap.Int("items", len(resp)))
	return resp, nil
}

// applyAllocation overwrites one type's allocation inside the caller's
// transaction and rejects results that would strand existing holds.
func (s *service) applyAllocation(ctx context.Context, repo Repository, uid uuid.UUID, year int, item AllocationItem) (*LeaveBalance, error) {
	b, err := s.lockOrMaterialize(ctx, repo, uid, item.LeaveType, year)
	if err != nil {
		return nil, err
	}

	b.TotalAllocated = item.TotalAllocated
	b.CarryOverDays = item.CarryOverDays
	b.recompute()
	if err := checkAllocation(b); err != nil {
		return nil, err
	}

	if err := repo.SaveBalance(ctx, b); err != nil {
		return nil, mapRepositoryError(err, nil)
	}
	return b, nil
}

// ListAllBalances returns every active user's balances for year in the
// lister's order, filling types without a stored row from policy.
func (s *service) ListAllBalances(ctx context.Context, year int) ([]UserBalancesResponse, error) {
	if !validYear(year) {
		return nil, balanceerrors.ErrInvalidYear
	}
	if s.users == nil {
		return nil, balanceerrors.ErrUserListUnavailable
	}

	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		s.logFailure("list active users failed", err, zap.Int("year", year))
		return nil, err
	}
	stored, err := s.repo.ListBalancesByYear(ctx, year)
	if err != nil {
		s.logger.Error("list balances by year failed", zap.Int("year", year), zap.Error(err))
		return nil, mapRepositoryError(err, nil)
	}

	byUser := make(map[string]map[string]LeaveBalance)
	for _, b := range stored {
		key := b.UserID.String()
		if byUser[key] == nil {
			byUser[key] = make(map[string]LeaveBalance, len(domain.LeaveTypes))
		}
		byUser[key][b.LeaveType] = b
	}

	resp := make([]UserBalancesResponse, 0, len(ids))
	for _, id := range ids {
		uid, err := uuid.Parse(id)
		if err != nil {
			s.logger.Warn("skipping user with malformed id", zap.String("user_id", id))
			continue
		}
		entry := UserBalancesResponse{
			UserID:   id,
			Year:     year,
			Balances: make([]BalanceResponse, 0, len(domain.LeaveTypes)),
		}
		for _, lt := range domain.LeaveTypes {
			b, ok := byUser[id][lt]
			if !ok {
				b = s.newBalance(uid, lt, year)
			}
			entry.Balances = append(entry.Balances, mapToResponse(b))
		}
		resp = append(resp, entry)
	}
	return resp, nil
}

// UtilizationStats aggregates stored balances per leave type. Types with no
// stored rows are reported with zero totals.
func (s *service) UtilizationStats(ctx context.Context, year int) ([]UtilizationResponse, error) {
	if !validYear(year) {
		return nil, balanceerrors.ErrInvalidYear
	}

	totals, err := s.repo.SumByLeaveType(ctx, year)
	if err != nil {
		s.logger.Error("utilization stats failed", zap.Int("year", year), zap.Error(err))
		return nil, mapRepositoryError(err, nil)
	}

	byType := make(map[string]LeaveTypeTotals, len(totals))
	for _, t := range totals {
		byType[t.LeaveType] = t
	}

	resp := make([]UtilizationResponse, 0, len(domain.LeaveTypes))
	for _, lt := range domain.LeaveTypes {
		t := byType[lt]
		rate := 0.0
		if granted := t.TotalAllocated + t.CarryOverDays; granted > 0 {
			rate = math.Round(float64(t.UsedDays)/float64(granted)*1000) / 10
		}
		resp = append(resp, UtilizationResponse{
			LeaveType:       lt,
			Users:           t.Users,
			TotalAllocated:  t.TotalAllocated,
			TotalUsed:       t.UsedDays,
			TotalCarryOver:  t.CarryOverDays,
			TotalRemaining:  t.RemainingDays,
			TotalReserved:   t.ReservedDays,
			UtilizationRate: rate,
		})
	}
	return resp, nil
}

func (s *service) ResetForNewYear(ctx context.Context, actorID, userID string, year int) ([]BalanceResponse, error) {
	s.logger.Debug("reset for new year requested",
		zap.String("actor_id", actorID),
		zap.String("user_id", userID),
		zap.Int("year", year),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}
	if !validYear(year) || !validYear(year-1) {
		return nil, balanceerrors.ErrInvalidYear
	}

	resp := make([]BalanceResponse, 0, len(domain.LeaveTypes))
	err = s.inTx(ctx, "reset for new year", func(repo Repository) error {
		for _, lt := range domain.LeaveTypes {
			policy := s.policies.For(lt)

			carry := 0
			if policy.CarryOverCap > 0 {
				prev, err := repo.FindBalance(ctx, userID, lt, year-1)
				switch {
				case err == nil:
					carry = min(max(prev.RemainingDays, 0), policy.CarryOverCap)
				case errors.Is(err, gorm.ErrRecordNotFound):
				default:
					return mapRepositoryError(err, nil)
				}
			}

			b, err := s.lockOrMaterialize(ctx, repo, uid, lt, year)
			if err != nil {
				return err
			}
			b.TotalAllocated = policy.DefaultGrant
			b.UsedDays = 0
			b.CarryOverDays = carry
			b.recompute()
			if err := checkAllocation(b); err != nil {
				return err
			}

			if err := repo.SaveBalance(ctx, b); err != nil {
				return mapRepositoryError(err, nil)
			}
			resp = append(resp, mapToResponse(*b))
		}
		return nil
	})
	s.metrics.LedgerOperation("reset_year", err)
	if err != nil {
		s.logFailure("reset for new year failed", err, zap.String("user_id", userID), zap.Int("year", year))
		return nil, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "LEAVE_BALANCE_YEAR_RESET",
		ActorID: actorID,
		Message: "leave balances reset for new year",
		Meta:    map[string]any{"user_id": userID, "year": year},
	})
	s.logger.Info("reset for new year success", zap.String("user_id", userID), zap.Int("year", year))
	return resp, nil
}

// lockOrMaterialize creates the key's row if missing and returns it locked
// for the rest of the transaction.
func (s *service) lockOrMaterialize(ctx context.Context, repo Repository, uid uuid.UUID, leaveType string, year int) (*LeaveBalance, error) {
	seed := s.newBalance(uid, leaveType, year)
	if err := repo.EnsureBalance(ctx, &seed); err != nil {
		return nil, mapRepositoryError(err, nil)
	}
	b, err := repo.LockBalance(ctx, uid.String(), leaveType, year)
	if err != nil {
		return nil, mapRepositoryError(err, balanceerrors.ErrBalanceNotFound)
	}
	return b, nil
}

func (s *service) newBalance(uid uuid.UUID, leaveType string, year int) LeaveBalance {
	b := LeaveBalance{
		ID:        uuid.New(),
		UserID:    uid,
		LeaveType: leaveType,
		Year:      year,
	}
	if s.seedDefaults {
		b.TotalAllocated = s.policies.For(leaveType).DefaultGrant
	}
	b.recompute()
	return b
}

func (s *service) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}

func checkAllocation(b *LeaveBalance) error {
	if b.RemainingDays < 0 {
		return balanceerrors.ErrNegativeAllocation
	}
	if b.ReservedDays > b.RemainingDays {
		return balanceerrors.ErrAllocationBelowHolds
	}
	return nil
}

func validateKey(userID, leaveType string, year int) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, balanceerrors.ErrInvalidUserID
	}
	if !domain.IsValidLeaveType(leaveType) {
		return uuid.Nil, balanceerrors.ErrInvalidLeaveType
	}
	if !validYear(year) {
		return uuid.Nil, balanceerrors.ErrInvalidYear
	}
	return uid, nil
}

func validYear(year int) bool {
	return year >= 1970 && year <= 9999
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID.String(),
		LeaveType:      b.LeaveType,
		Year:           b.Year,
		TotalAllocated: b.TotalAllocated,
		UsedDays:       b.UsedDays,
		CarryOverDays:  b.CarryOverDays,
		RemainingDays:  b.RemainingDays,
		ReservedDays:   b.ReservedDays,
		AvailableDays:  b.AvailableDays(),
	}
}
