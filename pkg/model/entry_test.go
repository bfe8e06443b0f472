package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tsuzuri/pkg/model"
)

func TestCategoryValidate(t *testing.T) {
	valid := []model.Category{
		"", model.CategoryDream, model.CategoryJournal, model.CategoryTripReport,
		model.CategoryOuting, model.CategoryEssay, model.CategoryNote, model.CategoryOther,
	}
	for _, c := range valid {
		gt.NoError(t, c.Validate())
	}

	err := model.Category("memoir").Validate()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrInvalidCategory))
}

func TestValidateDate(t *testing.T) {
	gt.NoError(t, model.ValidateDate("2024-01-31"))

	for _, date := range []string{"", "2024-13-01", "01/31/2024", "2024-1-5", "yesterday"} {
		err := model.ValidateDate(date)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidDate))
	}
}

func TestSortOrderValidate(t *testing.T) {
	gt.NoError(t, model.SortAsc.Validate())
	gt.NoError(t, model.SortDesc.Validate())
	gt.Error(t, model.SortOrder("sideways").Validate())
}

func TestNewEntryID(t *testing.T) {
	a := model.NewEntryID()
	b := model.NewEntryID()
	gt.True(t, a != b)
	gt.True(t, a != "")
}
