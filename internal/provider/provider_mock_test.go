package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// MockStore is a mock implementation of types.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Query(sel types.Selection, columns []string, sortOrder string) (types.Cursor, error) {
	args := m.Called(sel, columns, sortOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(types.Cursor), args.Error(1)
}

func (m *MockStore) Insert(values types.Values) (int64, error) {
	args := m.Called(values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Update(sel types.Selection, values types.Values) (int64, error) {
	args := m.Called(sel, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Delete(sel types.Selection) (int64, error) {
	args := m.Called(sel)
	return args.Get(0).(int64), args.Error(1)
}

func TestProvider_EmptyUpdateSkipsStorage(t *testing.T) {
	store := new(MockStore)
	p := New(store)

	for _, uri := range []string{types.CollectionURI, types.ItemURI(8)} {
		rows, err := p.Update(uri, types.Values{}, types.Selection{})
		require.NoError(t, err)
		assert.Zero(t, rows)

		rows, err = p.Update(uri, nil, types.Selection{})
		require.NoError(t, err)
		assert.Zero(t, rows)
	}

	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestProvider_InvalidPayloadSkipsStorage(t *testing.T) {
	store := new(MockStore)
	p := New(store)

	_, err := p.Insert(types.CollectionURI, types.Values{types.ColumnName: "x"})
	assert.ErrorIs(t, err, types.ErrMissingRequiredField)

	_, err = p.Update(types.ItemURI(1), types.Values{types.ColumnPrice: -1}, types.Selection{})
	assert.ErrorIs(t, err, types.ErrInvalidFieldValue)

	store.AssertNotCalled(t, "Insert", mock.Anything)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProvider_PassesCoercedValues(t *testing.T) {
	store := new(MockStore)
	p := New(store)

	store.On("Update", types.ByID(3), types.Values{types.ColumnPrice: int64(250)}).
		Return(int64(1), nil).Once()

	rows, err := p.Update(types.ItemURI(3), types.Values{types.ColumnPrice: "250"}, types.Selection{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	store.AssertExpectations(t)
}

func TestProvider_StorageFailureIsNotAnnounced(t *testing.T) {
	store := new(MockStore)
	p := New(store)
	s := p.Notifier().Subscribe(types.CollectionURI, true)
	defer s.Close()

	cause := errors.New("disk full")
	store.On("Delete", types.ByID(1)).
		Return(int64(0), fmt.Errorf("%w: %w", types.ErrStorageWriteFailed, cause)).Once()

	_, err := p.Delete(types.ItemURI(1), types.Selection{})
	assert.ErrorIs(t, err, types.ErrStorageWriteFailed)
	assert.ErrorIs(t, err, cause)
	assertQuiet(t, s)
	store.AssertExpectations(t)
}
