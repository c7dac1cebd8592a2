package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
)

type entry struct {
	ID string `json:"id"`
}

func TestLoad(t *testing.T) {
	def := []entry{{ID: "default"}}

	tests := []struct {
		name      string
		setupMock func(m *storage.MockKV)
		want      []entry
	}{
		{
			name: "Stored",
			setupMock: func(m *storage.MockKV) {
				m.EXPECT().Get(gomock.Any(), storage.KeyTransactions).Return([]byte(`[{"id":"a"}]`), nil)
			},
			want: []entry{{ID: "a"}},
		},
		{
			name: "Absent",
			setupMock: func(m *storage.MockKV) {
				m.EXPECT().Get(gomock.Any(), storage.KeyTransactions).Return(nil, storage.ErrNotFound)
			},
			want: def,
		},
		{
			name: "Unparsable",
			setupMock: func(m *storage.MockKV) {
				m.EXPECT().Get(gomock.Any(), storage.KeyTransactions).Return([]byte(`{oops`), nil)
			},
			want: def,
		},
		{
			name: "ReadError",
			setupMock: func(m *storage.MockKV) {
				m.EXPECT().Get(gomock.Any(), storage.KeyTransactions).Return(nil, errors.New("disk error"))
			},
			want: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			kv := storage.NewMockKV(ctrl)
			tt.setupMock(kv)

			got := storage.Load(context.Background(), kv, storage.KeyTransactions, def)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := storage.NewMockKV(ctrl)
	kv.EXPECT().Set(gomock.Any(), storage.KeyIncomeCategories, []byte(`[{"id":"a"}]`)).Return(nil)

	require.NoError(t, storage.Save(context.Background(), kv, storage.KeyIncomeCategories, []entry{{ID: "a"}}))

	kv.EXPECT().Set(gomock.Any(), storage.KeyIncomeCategories, gomock.Any()).Return(errors.New("read-only"))

	err := storage.Save(context.Background(), kv, storage.KeyIncomeCategories, []entry{})
	assert.ErrorContains(t, err, "saving incomeCategories")
}
