// Package params binds HTTP path parameters.
package params

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ErrInvalidID is returned when an id path parameter is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// PathID binds the named path parameter as a positive numeric id.
func PathID(c *gin.Context, name string) (uint, error) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidID, name, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidID, name)
	}
	return id, nil
}
