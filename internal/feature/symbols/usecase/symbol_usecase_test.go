package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price_backend/internal/feature/symbols/domain/entity"
)

// mockSymbolRepository is a mock implementation of SymbolRepository.
type mockSymbolRepository struct {
	CreateFunc     func(ctx context.Context, s *entity.Symbol) error
	FindByIDFunc   func(ctx context.Context, id uint) (*entity.Symbol, error)
	ListFunc       func(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error)
	UpdateFunc     func(ctx context.Context, s *entity.Symbol) error
	DeleteFunc     func(ctx context.Context, id uint) error
	ListPublicFunc func(ctx context.Context) ([]entity.Symbol, error)
}

func (m *mockSymbolRepository) Create(ctx context.Context, s *entity.Symbol) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	s.ID = 1
	return nil
}

func (m *mockSymbolRepository) FindByID(ctx context.Context, id uint) (*entity.Symbol, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSymbolNotFound
}

func (m *mockSymbolRepository) List(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockSymbolRepository) Update(ctx context.Context, s *entity.Symbol) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *mockSymbolRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSymbolRepository) ListPublic(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx)
	}
	return nil, nil
}

func TestSymbolUsecase_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        CreateInput
		repoErr   error
		wantName  string
		wantPrice string
		wantErr   error
	}{
		{
			name:      "success: trims name and rounds price",
			in:        CreateInput{Name: "  BTC/USD ", Public: true, Price: decimal.RequireFromString("50000.456")},
			wantName:  "BTC/USD",
			wantPrice: "50000.46",
		},
		{
			name:    "failure: blank name",
			in:      CreateInput{Name: "   ", Price: decimal.NewFromInt(1)},
			wantErr: ErrInvalidSymbolName,
		},
		{
			name:    "failure: negative price",
			in:      CreateInput{Name: "ETH/USD", Price: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "failure: price beyond decimal(10,2)",
			in:      CreateInput{Name: "ETH/USD", Price: decimal.RequireFromString("100000000")},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "failure: duplicate name",
			in:      CreateInput{Name: "BTC/USD", Price: decimal.NewFromInt(1)},
			repoErr: ErrSymbolAlreadyExists,
			wantErr: ErrSymbolAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockSymbolRepository{
				CreateFunc: func(ctx context.Context, s *entity.Symbol) error {
					if tt.repoErr != nil {
						return tt.repoErr
					}
					s.ID = 9
					return nil
				},
			}
			uc := NewSymbolUsecase(repo)

			got, err := uc.Create(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(9), got.ID)
			assert.Equal(t, tt.wantName, got.Name)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(got.Price))
		})
	}
}

func TestSymbolUsecase_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		page, count  int
		total        int64
		wantOffset   int
		wantLimit    int
		wantPage     int
		wantCount    int
		wantLastPage int
	}{
		{name: "defaults", total: 25, wantOffset: 0, wantLimit: 10, wantPage: 1, wantCount: 10, wantLastPage: 3},
		{name: "second page", page: 2, count: 5, total: 11, wantOffset: 5, wantLimit: 5, wantPage: 2, wantCount: 5, wantLastPage: 3},
		{name: "count capped", page: 1, count: 500, total: 150, wantOffset: 0, wantLimit: 100, wantPage: 1, wantCount: 100, wantLastPage: 2},
		{name: "empty table", page: 1, count: 10, total: 0, wantOffset: 0, wantLimit: 10, wantPage: 1, wantCount: 10, wantLastPage: 0},
		{name: "exact multiple", page: 1, count: 10, total: 20, wantOffset: 0, wantLimit: 10, wantPage: 1, wantCount: 10, wantLastPage: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockSymbolRepository{
				ListFunc: func(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error) {
					assert.Equal(t, tt.wantOffset, offset)
					assert.Equal(t, tt.wantLimit, limit)
					return []entity.Symbol{{ID: 1}}, tt.total, nil
				},
			}

			got, err := NewSymbolUsecase(repo).List(context.Background(), tt.page, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantCount, got.Count)
			assert.Equal(t, tt.wantLastPage, got.LastPage)
		})
	}

	t.Run("failure: repository error", func(t *testing.T) {
		t.Parallel()
		dbErr := errors.New("db down")
		repo := &mockSymbolRepository{
			ListFunc: func(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error) {
				return nil, 0, dbErr
			},
		}
		_, err := NewSymbolUsecase(repo).List(context.Background(), 1, 10)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestSymbolUsecase_Update(t *testing.T) {
	t.Parallel()

	existing := func() *entity.Symbol {
		return &entity.Symbol{ID: 3, Name: "BTC/USD", Public: false, Price: decimal.NewFromInt(100)}
	}
	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }
	decPtr := func(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

	tests := []struct {
		name    string
		in      UpdateInput
		find    func(ctx context.Context, id uint) (*entity.Symbol, error)
		want    entity.Symbol
		wantErr error
	}{
		{
			name: "success: only provided fields change",
			in:   UpdateInput{Public: boolPtr(true)},
			want: entity.Symbol{ID: 3, Name: "BTC/USD", Public: true, Price: decimal.NewFromInt(100)},
		},
		{
			name: "success: all fields change",
			in:   UpdateInput{Name: strPtr("XBT/USD"), Public: boolPtr(true), Price: decPtr("42.5")},
			want: entity.Symbol{ID: 3, Name: "XBT/USD", Public: true, Price: decimal.RequireFromString("42.5")},
		},
		{
			name:    "failure: symbol missing",
			in:      UpdateInput{Public: boolPtr(true)},
			find:    func(ctx context.Context, id uint) (*entity.Symbol, error) { return nil, ErrSymbolNotFound },
			wantErr: ErrSymbolNotFound,
		},
		{
			name:    "failure: invalid price",
			in:      UpdateInput{Price: decPtr("-3")},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "failure: blank name",
			in:      UpdateInput{Name: strPtr("")},
			wantErr: ErrInvalidSymbolName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var saved *entity.Symbol
			repo := &mockSymbolRepository{
				FindByIDFunc: func(ctx context.Context, id uint) (*entity.Symbol, error) {
					if tt.find != nil {
						return tt.find(ctx, id)
					}
					return existing(), nil
				},
				UpdateFunc: func(ctx context.Context, s *entity.Symbol) error {
					saved = s
					return nil
				},
			}

			got, err := NewSymbolUsecase(repo).Update(context.Background(), 3, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, saved, "nothing saved on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Public, got.Public)
			assert.True(t, tt.want.Price.Equal(got.Price))
			assert.Same(t, got, saved)
		})
	}
}

func TestSymbolUsecase_DeleteAndListPublic(t *testing.T) {
	t.Parallel()

	var deleted uint
	repo := &mockSymbolRepository{
		DeleteFunc: func(ctx context.Context, id uint) error {
			deleted = id
			return nil
		},
		ListPublicFunc: func(ctx context.Context) ([]entity.Symbol, error) {
			return []entity.Symbol{{ID: 1, Name: "BTC/USD", Public: true}}, nil
		},
	}
	uc := NewSymbolUsecase(repo)

	require.NoError(t, uc.Delete(context.Background(), 4))
	assert.Equal(t, uint(4), deleted)

	public, err := uc.ListPublic(context.Background())
	require.NoError(t, err)
	assert.Len(t, public, 1)
}
