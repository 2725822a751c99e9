package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fomu/core/customform"
)

var contextObjectKey = "object"

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// formMiddleware loads the form of the `:id` path param into the context.
func formMiddleware(svc customform.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			form, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == customform.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding custom form by ID")
			}
			ctx.Set(contextObjectKey, form)
			return next(ctx)
		}
	}
}

func getContextForm(ctx echo.Context) (customform.CustomForm, error) {
	form, ok := ctx.Get(contextObjectKey).(customform.CustomForm)
	if !ok {
		return customform.CustomForm{}, errFormNotFoundInCtx
	}
	return form, nil
}
