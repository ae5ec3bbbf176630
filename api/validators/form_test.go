package validators

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/micronstore/storefront/pkg/errors"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart/add/1/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeCartAddForm(t *testing.T) {
	var form CartAddForm
	require.NoError(t, DecodeForm(postForm(url.Values{"quantity": {"3"}, "override": {"True"}}), &form))
	assert.Equal(t, 3, form.Quantity)
	assert.True(t, form.Override)

	form = CartAddForm{}
	require.NoError(t, DecodeForm(postForm(url.Values{"quantity": {"20"}, "override": {"false"}}), &form))
	assert.Equal(t, 20, form.Quantity)
	assert.False(t, form.Override)
}

func TestDecodeCartAddFormRejects(t *testing.T) {
	cases := map[string]url.Values{
		"missing quantity": {},
		"zero":             {"quantity": {"0"}},
		"too many":         {"quantity": {"21"}},
		"not a number":     {"quantity": {"two"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			var form CartAddForm
			err := DecodeForm(postForm(values), &form)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Equal(t, MsgInvalidForm, pkgerrors.As(err).Message())
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, "quantity")
		})
	}
}

func TestDecodeCouponForm(t *testing.T) {
	var form CouponApplyForm
	require.NoError(t, DecodeForm(postForm(url.Values{"code": {"  SAVE10 "}}), &form))
	assert.Equal(t, "SAVE10", form.Code)

	assert.Error(t, DecodeForm(postForm(url.Values{"code": {""}}), &CouponApplyForm{}))
	assert.Error(t, DecodeForm(postForm(url.Values{"code": {strings.Repeat("x", 51)}}), &CouponApplyForm{}))
}

func TestDecodeFormRequiresStructPointer(t *testing.T) {
	var form CouponApplyForm
	err := DecodeForm(postForm(url.Values{}), form)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc def", SanitizeString(" abc def ", 0))
}
