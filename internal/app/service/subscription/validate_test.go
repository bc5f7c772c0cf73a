package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/types"
)

func validParams() CreateParams {
	return CreateParams{
		OwnerID:    "user-1",
		Name:       "Netflix",
		Price:      1490,
		Category:   types.CategoryVideo,
		BillingDay: 15,
		StartDate:  "2024-01-01",
	}
}

func TestRecordFromParams_Valid(t *testing.T) {
	rec, err := recordFromParams(validParams())
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.True(t, rec.IsTemplate())
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), rec.StartDate)
	assert.Nil(t, rec.EndDate)
}

func TestRecordFromParams_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateParams)
		field  string
	}{
		{"missing owner", func(p *CreateParams) { p.OwnerID = "" }, "owner_id"},
		{"empty name", func(p *CreateParams) { p.Name = "" }, "name"},
		{"negative price", func(p *CreateParams) { p.Price = -1 }, "price"},
		{"unknown category", func(p *CreateParams) { p.Category = "crypto" }, "category"},
		{"billing day zero", func(p *CreateParams) { p.BillingDay = 0 }, "billing_day"},
		{"billing day 32", func(p *CreateParams) { p.BillingDay = 32 }, "billing_day"},
		{"bad start date", func(p *CreateParams) { p.StartDate = "01/02/2024" }, "start_date"},
		{"bad end date", func(p *CreateParams) { p.EndDate = "soon" }, "end_date"},
		{"end before start", func(p *CreateParams) { p.EndDate = "2023-12-31" }, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := recordFromParams(p)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))

			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRecordFromParams_BillingDay31Allowed(t *testing.T) {
	p := validParams()
	p.BillingDay = 31
	rec, err := recordFromParams(p)
	require.NoError(t, err)
	assert.Equal(t, 31, rec.BillingDay)
}
