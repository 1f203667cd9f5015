package generate

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/internal/errors"
	"codeberg.org/pixelforge/server/internal/imagen"
	"codeberg.org/pixelforge/server/internal/logger"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// Handler godoc
// @Summary Generate an image
// @Description Generate an image from a text prompt. Authenticated users spend credits; anonymous users consume their free daily attempts.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body Request true "Generation request"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} DeniedResponse "Insufficient credits"
// @Failure 429 {object} DeniedResponse "Anonymous daily limit reached"
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/generate [post]
func Handler(engine *limiter.Engine, generator imagen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		actor := auth.ResolveActor(c)

		decision, err := engine.CheckAndSpend(c.Request.Context(), actor, limiter.ActionGeneration)
		if err != nil {
			errors.InternalError(c, "failed to check generation allowance", err)
			return
		}

		if !decision.Allowed {
			respondDenied(c, decision)
			return
		}

		// the spend is already committed; a provider failure here is deliberate
		// breakage the operator can see in the ledger, not silently refunded
		resp, err := generator.Generate(c.Request.Context(), imagen.GenerationRequest{
			Prompt: req.Prompt,
			Size:   req.Size,
		})

		if err != nil {
			logger.ErrorErr(err, "image generation failed",
				"actor", actor.Ref(),
				"authenticated", actor.IsAuthenticated(),
			)
			errors.GenerationFailed(c, err)

			return
		}

		c.JSON(http.StatusOK, Response{
			Image:         resp.ImageBase64,
			RevisedPrompt: resp.RevisedPrompt,
			Model:         resp.Model,
			Decision:      decision,
		})
	}
}

// RemixHandler godoc
// @Summary Remix an image
// @Description Generate a variation of an existing image guided by a text prompt. Costs the same accounting treatment as generation.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body RemixRequest true "Remix request"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} DeniedResponse "Insufficient credits"
// @Failure 429 {object} DeniedResponse "Anonymous daily limit reached"
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/generate/remix [post]
func RemixHandler(engine *limiter.Engine, generator imagen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemixRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		sourceImage, err := base64.StdEncoding.DecodeString(req.SourceImage)
		if err != nil {
			errors.BadRequest(c, "source_image must be base64-encoded", err)
			return
		}

		actor := auth.ResolveActor(c)

		decision, err := engine.CheckAndSpend(c.Request.Context(), actor, limiter.ActionRemix)
		if err != nil {
			errors.InternalError(c, "failed to check remix allowance", err)
			return
		}

		if !decision.Allowed {
			respondDenied(c, decision)
			return
		}

		resp, err := generator.Remix(c.Request.Context(), imagen.RemixRequest{
			Prompt:      req.Prompt,
			SourceImage: sourceImage,
			Size:        req.Size,
		})

		if err != nil {
			logger.ErrorErr(err, "image remix failed",
				"actor", actor.Ref(),
				"authenticated", actor.IsAuthenticated(),
			)
			errors.GenerationFailed(c, err)

			return
		}

		c.JSON(http.StatusOK, Response{
			Image:         resp.ImageBase64,
			RevisedPrompt: resp.RevisedPrompt,
			Model:         resp.Model,
			Decision:      decision,
		})
	}
}

// maps a denial to its HTTP status, surfacing the decision verbatim
func respondDenied(c *gin.Context, decision *limiter.Decision) {
	status := http.StatusPaymentRequired
	message := "not enough credits for this action"

	if decision.Reason == limiter.ReasonAnonymousLimitReached {
		status = http.StatusTooManyRequests
		message = "free daily attempts used up, sign in to continue"
	}

	c.JSON(status, DeniedResponse{
		Error:    decision.Reason,
		Message:  message,
		Decision: decision,
	})
}
