package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/accounting"
	"osintranet/internal/domain"
)

func TestCommonLists(t *testing.T) {
	tests := []struct {
		path  string
		query string
		text  string
	}{
		{"/accounting/account-groups", "GetAccountGroupsQuery", "ASSETS"},
		{"/accounting/budget-account-groups", "GetBudgetAccountGroupsQuery", "Household"},
		{"/accounting/payment-terms", "GetPaymentTermsQuery", "Net 8"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			router, _, queries := setup(t)

			w := get(router, tt.path)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.text)
			queries.find(t, tt.query)
		})
	}
}

func TestCreateAccountGroup(t *testing.T) {
	router, commands, _ := setup(t)

	w := postForm(router, "/accounting/account-groups/create", url.Values{
		"number":             {"3"},
		"name":               {"Loans"},
		"account_group_type": {"LIABILITIES"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/accounting/account-groups", w.Header().Get("Location"))
	assert.Equal(t, accounting.CreateAccountGroupCommand{Number: 3, Name: "Loans", AccountGroupType: domain.Liabilities}, commands.last(t))
}

func TestUpdatePaymentTerm(t *testing.T) {
	router, commands, _ := setup(t)

	w := postForm(router, "/accounting/payment-terms/1/update", url.Values{"name": {"Net 14"}})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, accounting.UpdatePaymentTermCommand{Number: 1, Name: "Net 14"}, commands.last(t))
}

func TestCommonFormErrors(t *testing.T) {
	router, commands, _ := setup(t)
	commands.err = domain.NewValidationError("AccountGroupType", "must be one of ASSETS LIABILITIES")

	w := postForm(router, "/accounting/account-groups/create", url.Values{"number": {"3"}, "name": {"Loans"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "must be one of ASSETS LIABILITIES")
}

func TestCommonFormBindingErrors(t *testing.T) {
	router, commands, _ := setup(t)

	w := postForm(router, "/accounting/budget-account-groups/create", url.Values{"number": {"0"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, commands.published)
}

func TestUpdateFormForUnknownBudgetAccountGroup(t *testing.T) {
	router, _, queries := setup(t)
	queries.fail["GetBudgetAccountGroupQuery"] = domain.NotFoundf("budget account group 7")

	w := get(router, "/accounting/budget-account-groups/7/update")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccountGroupInUse(t *testing.T) {
	router, commands, _ := setup(t)
	commands.err = domain.InUsef("account group 1")

	w := postForm(router, "/accounting/account-groups/1/delete", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, accounting.DeleteAccountGroupCommand{Number: 1}, commands.last(t))
}

func TestCommonInvalidNumber(t *testing.T) {
	router, _, queries := setup(t)

	w := get(router, "/accounting/payment-terms/abc/update")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, queries.asked)
}
