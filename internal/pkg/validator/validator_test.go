package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Token   string `json:"token" validate:"required"`
	Outcome string `json:"outcome" validate:"required,oneof=keep hide"`
	Limit   int    `json:"limit,omitempty" validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{Token: "t", Outcome: "keep"}))
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(sample{Outcome: "delete", Limit: -1})

	assert.Equal(t, map[string]string{
		"token":   "required",
		"outcome": "oneof",
		"limit":   "gte",
	}, errs)
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req sample
		if !BindJSON(c, &req) {
			return
		}
		// a second bind reads the cached body
		var again sample
		if !BindJSON(c, &again) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": again.Outcome})
	})

	cases := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"ok", `{"token":"t","outcome":"hide"}`, http.StatusOK, `"hide"`},
		{"malformed", `{"token":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid", `{"token":"t","outcome":"burn"}`, http.StatusBadRequest, `"outcome":"oneof"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}
