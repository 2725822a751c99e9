package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fomu/core/customform"
)

type customFormApi struct {
	svc      customform.Service
	validate *validator.Validate
}

func registerCustomFormAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc customform.Service, validate *validator.Validate) {
	api := customFormApi{
		svc:      svc,
		validate: validate,
	}

	fg := g.Group("/forms", jwt)
	fg.GET("", api.query)
	fg.POST("", api.create, adminMiddleware())

	// detail endpoints
	dg := fg.Group("/:id", formMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())

	// form editor
	dg.PUT("/content", api.replaceContent, adminMiddleware())
	dg.POST("/headings", api.addHeading, adminMiddleware())
	dg.POST("/text-blocks", api.addTextBlock, adminMiddleware())
	dg.POST("/prompts", api.addPrompt, adminMiddleware())
	dg.POST("/elements/:kind/:order/move", api.moveElement, adminMiddleware())
	dg.DELETE("/elements/:kind/:order", api.deleteElement, adminMiddleware())

	// respondents
	dg.POST("/preview", api.preview)
	dg.POST("/submissions", api.submit)
	dg.GET("/submissions", api.querySubmissions, adminMiddleware())
}

type (
	// ElementResponse is an element of the merged form, tagged with its kind.
	ElementResponse struct {
		Kind    customform.Kind    `json:"kind"`
		Element customform.Element `json:"element"`
	}

	FormResponse struct {
		customform.CustomForm
		Elements []ElementResponse `json:"elements"`
	}
)

func newFormResponse(form customform.CustomForm) FormResponse {
	merged := form.Elements()
	elems := make([]ElementResponse, 0, len(merged))
	for _, el := range merged {
		elems = append(elems, ElementResponse{Kind: el.Kind(), Element: el})
	}
	return FormResponse{CustomForm: form, Elements: elems}
}

// elementRef parses the `:kind` & `:order` path params.
func elementRef(ctx echo.Context) (customform.Ref, error) {
	kind, err := customform.ParseKind(ctx.Param("kind"))
	if err != nil {
		return customform.Ref{}, errHttpNotFound
	}
	order, err := strconv.Atoi(ctx.Param("order"))
	if err != nil || order < 1 {
		return customform.Ref{}, errHttpNotFound
	}
	return customform.Ref{Kind: kind, Order: order}, nil
}

// Handlers

func (api *customFormApi) create(ctx echo.Context) error {
	var data customform.NewCustomForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCustomForm")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	form, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating custom form")
	}
	return ctx.JSON(http.StatusCreated, newFormResponse(form))
}

func (api *customFormApi) query(ctx echo.Context) error {
	filter := new(customform.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []customform.CustomForm{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	forms, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying custom forms")
	}
	if forms == nil {
		forms = []customform.CustomForm{}
	}
	return ctx.JSON(http.StatusOK, forms)
}

func (api *customFormApi) retrieve(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, newFormResponse(form))
}

func (api *customFormApi) update(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.UpdateCustomForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCustomForm")
	}
	if err = data.Validate(form, api.validate); err != nil {
		return err
	}

	form, err = api.svc.Update(ctx.Request().Context(), form.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating custom form")
	}
	return ctx.JSON(http.StatusOK, newFormResponse(form))
}

func (api *customFormApi) destroy(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	if err = api.svc.Delete(ctx.Request().Context(), form.ID); err != nil {
		return errors.Wrap(err, "deleting custom form")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *customFormApi) replaceContent(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.ReplaceContent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReplaceContent")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	form, err = api.svc.ReplaceContent(ctx.Request().Context(), form.ID, data.Content)
	if err != nil {
		return errors.Wrap(err, "replacing custom form content")
	}
	return ctx.JSON(http.StatusOK, newFormResponse(form))
}

func (api *customFormApi) addHeading(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.NewHeading
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHeading")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	form, err = api.svc.AddHeading(ctx.Request().Context(), form.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding heading")
	}
	return ctx.JSON(http.StatusCreated, newFormResponse(form))
}

func (api *customFormApi) addTextBlock(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.NewTextBlock
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTextBlock")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	form, err = api.svc.AddTextBlock(ctx.Request().Context(), form.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding text block")
	}
	return ctx.JSON(http.StatusCreated, newFormResponse(form))
}

func (api *customFormApi) addPrompt(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.NewPrompt
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPrompt")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	form, err = api.svc.AddPrompt(ctx.Request().Context(), form.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding prompt")
	}
	return ctx.JSON(http.StatusCreated, newFormResponse(form))
}

func (api *customFormApi) moveElement(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	ref, err := elementRef(ctx)
	if err != nil {
		return err
	}

	var data customform.MoveElement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveElement")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	form, err = api.svc.MoveElement(ctx.Request().Context(), form.ID, ref, data.Direction)
	if err != nil {
		return errors.Wrapf(err, "moving %s %s", ref, data.Direction)
	}
	return ctx.JSON(http.StatusOK, newFormResponse(form))
}

func (api *customFormApi) deleteElement(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}
	ref, err := elementRef(ctx)
	if err != nil {
		return err
	}

	form, err = api.svc.DeleteElement(ctx.Request().Context(), form.ID, ref)
	if err != nil {
		return errors.Wrapf(err, "deleting %s", ref)
	}
	return ctx.JSON(http.StatusOK, newFormResponse(form))
}

func (api *customFormApi) preview(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.SubmitResponses
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitResponses")
	}

	res, err := api.svc.Preview(ctx.Request().Context(), form.ID, data.Responses)
	if err != nil {
		return errors.Wrap(err, "previewing responses")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *customFormApi) submit(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	var data customform.SubmitResponses
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitResponses")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	sub, err := api.svc.Submit(ctx.Request().Context(), form.ID, claims.Subject, data.Responses)
	if err != nil {
		return errors.Wrap(err, "submitting responses")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *customFormApi) querySubmissions(ctx echo.Context) error {
	form, err := getContextForm(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving object from context")
	}

	subs, err := api.svc.QuerySubmissions(ctx.Request().Context(), form.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
