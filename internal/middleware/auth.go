package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/jwt"
	"coursereviews/internal/pkg/logger"
	"coursereviews/internal/pkg/response"
)

const studentKey = "student"

// TokenVerifier is the Auth Verifier: it turns a bearer credential into claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwt.Claims, error)
}

// StudentResolver finds (or provisions) the student behind verified claims.
type StudentResolver interface {
	FirstOrCreate(ctx context.Context, netID string) (*domain.Student, error)
}

type tokenBody struct {
	Token string `json:"token"`
}

// TokenAuth authenticates the request. The credential is taken from the
// Authorization header, the JSON body's "token" field, or the "token" query
// parameter (websocket upgrades), in that order.
func TokenAuth(verifier TokenVerifier, students StudentResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token")
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, token)
		if err != nil {
			logger.FromContext(ctx).Info("token rejected", "reason", err.Error())
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		student, err := students.FirstOrCreate(ctx, claims.NetID())
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(studentKey, student)
		c.Set("student_id", student.ID)
		c.Request = c.Request.WithContext(logger.NewContext(ctx,
			logger.FromContext(ctx).With("student_id", student.ID),
		))
		c.Next()
	}
}

// CurrentStudent returns the authenticated student, or nil on public routes.
func CurrentStudent(c *gin.Context) *domain.Student {
	v, ok := c.Get(studentKey)
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Student)
	return s
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		var body tokenBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
			if t := strings.TrimSpace(body.Token); t != "" {
				return t
			}
		}
	}

	return strings.TrimSpace(c.Query("token"))
}
