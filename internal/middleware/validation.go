package middleware

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds the JSON body into obj and runs the binding validators. On failure the
// error response is written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}

// Bind binds JSON or form bodies according to the content type.
func Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}
