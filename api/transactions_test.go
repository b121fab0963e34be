package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/api"
)

func TestQuery_SortBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field api.SortField
		order api.SortOrder
		want  string
	}{
		{"", api.Ascend, ""},
		{api.SortCreatedOn, api.Ascend, "createdOn,asc"},
		{api.SortNameOrAlias, api.Ascend, "alias,asc"},
		{api.SortAmountRequested, api.Descend, "sourceAmount,desc"},
		{api.SortDestinationAmount, "", "destinationAmount,desc"},
		{api.SortSentOrReceived, api.Descend, "sentOrReceived,desc"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+string(tt.order), func(t *testing.T) {
			got, err := api.Query{SortField: tt.field, SortOrder: tt.order}.SortBy()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := api.Query{SortField: "fee"}.SortBy()
	assert.ErrorIs(t, err, api.ErrUnknownSortField)
}

func TestText_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var v struct {
		A api.Text `json:"a"`
		B api.Text `json:"b"`
		C api.Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x-1","b":12.50,"c":null}`), &v))
	assert.Equal(t, api.Text("x-1"), v.A)
	assert.Equal(t, api.Text("12.50"), v.B)
	assert.Empty(t, v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestQuery_ActiveFilters(t *testing.T) {
	t.Parallel()

	assert.Zero(t, api.Query{Page: 2, PageSize: 20}.ActiveFilters())

	q := api.Query{
		SortField: api.SortCreatedOn,
		Filters: api.Filters{
			Status:           api.StatusPending,
			TransactionModes: []api.TransactionMode{api.ModeFiatToFiat},
			SentOrReceived:   api.DirectionReceived,
			DateRange:        api.RangeCustom,
			From:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:               time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	assert.Equal(t, 6, q.ActiveFilters())
}

func TestPage_PageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := &api.Page{TotalCount: tt.total}
		assert.Equal(t, tt.want, p.PageCount(tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}
