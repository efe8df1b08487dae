package utils

import (
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/explainium/explainium/pkg/errors"
)

func GenRandomID() string {
	return RandomStr(32)
}

// RandomStr generates a request-scoped identifier. Not for storage names,
// those come from GenStorageName.
func RandomStr(l int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	seed := "1234567890qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM"
	var b strings.Builder
	for i := 0; i < l; i++ {
		b.WriteByte(seed[r.Intn(len(seed))])
	}
	return b.String()
}

// GenStorageName returns the system-assigned file name a raw upload is stored
// under. The user supplied filename never reaches the filestore, only its
// extension survives.
func GenStorageName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}

func Random(min, max int) int {
	if min == max {
		return max
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return min + r.Intn(max-min+1)
}

func BindArgsWithGin(c *gin.Context, req interface{}) error {
	err := c.ShouldBindWith(req, binding.Default(c.Request.Method, c.ContentType()))
	if err != nil {
		return errors.New(fmt.Sprintf("Gin.ShouldBindWith.%s.%s", c.Request.Method, c.Request.URL.Path),
			errors.ERROR_INVALID_ARGUMENT, err).Code(http.StatusBadRequest)
	}
	return nil
}
