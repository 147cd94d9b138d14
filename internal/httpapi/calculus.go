package httpapi

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/export"
	"github.com/san-kum/calclab/internal/expr"
)

type EvaluateReq struct {
	Expression string    `json:"expression"`
	X          []float64 `json:"x" binding:"max=10000"`
}

type EvaluateResp struct {
	Expression string          `json:"expression"`
	Sanitized  string          `json:"sanitized"`
	Values     []export.Number `json:"values"`
	Error      string          `json:"error,omitempty"`
}

func (h *HttpEndpoints) evaluate(c *gin.Context) {
	var req EvaluateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("evaluate: bad request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.withBudget(c)
	defer cancel()

	ys, err := calculus.EvaluateContext(ctx, req.Expression, req.X)
	if h.overBudget(c, "evaluate", err) {
		return
	}
	resp := EvaluateResp{
		Expression: req.Expression,
		Sanitized:  expr.Sanitize(req.Expression),
		Values:     make([]export.Number, len(ys)),
		Error:      errorText(err),
	}
	degenerate := false
	for i, y := range ys {
		resp.Values[i] = export.Number(y)
		degenerate = degenerate || math.IsNaN(y) || math.IsInf(y, 0)
	}
	if err == nil && degenerate {
		resp.Error = calculus.ErrNumericDegeneracy.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type CurveReq struct {
	Expression string  `json:"expression"`
	XMin       float64 `json:"xMin"`
	XMax       float64 `json:"xMax"`
	N          *int    `json:"n" binding:"omitempty,min=0,max=10000"`
}

func (r CurveReq) domain(defaultN int) calculus.Domain {
	n := defaultN
	if r.N != nil {
		n = *r.N
	}
	return calculus.Domain{XMin: r.XMin, XMax: r.XMax, N: n}
}

type CurveResp struct {
	Expression string            `json:"expression"`
	Points     []calculus.Sample `json:"points"`
	Count      int               `json:"count"`
	Error      string            `json:"error,omitempty"`
}

func (h *HttpEndpoints) points(c *gin.Context) {
	var req CurveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.withBudget(c)
	defer cancel()

	d := req.domain(h.samples)
	pts, err := calculus.PointsContext(ctx, req.Expression, d)
	if h.overBudget(c, "points", err) {
		return
	}
	if err == nil {
		err = calculus.CheckCurve(req.Expression, d, pts)
	}

	c.JSON(http.StatusOK, CurveResp{
		Expression: req.Expression,
		Points:     pts,
		Count:      len(pts),
		Error:      errorText(err),
	})
}

type DerivativeReq struct {
	Expression string   `json:"expression"`
	X          float64  `json:"x"`
	H          *float64 `json:"h"`
}

type DerivativeResp struct {
	Expression string            `json:"expression"`
	X          float64           `json:"x"`
	H          float64           `json:"h"`
	Value      export.Number     `json:"value"`
	Tangent    *calculus.Tangent `json:"tangent,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (h *HttpEndpoints) derivative(c *gin.Context) {
	var req DerivativeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	step := h.step
	if req.H != nil {
		step = *req.H
	}

	v := calculus.Derivative(req.Expression, req.X, step)
	resp := DerivativeResp{
		Expression: req.Expression,
		X:          req.X,
		H:          step,
		Value:      export.Number(v),
		Error:      errorText(calculus.Check(req.Expression, v)),
	}
	if t := (calculus.Tangent{X0: req.X, Y0: expr.Evaluate(req.Expression, req.X), Slope: v}); t.Valid() {
		resp.Tangent = &t
	}
	c.JSON(http.StatusOK, resp)
}

type HigherDerivativeReq struct {
	CurveReq
	H     *float64 `json:"h"`
	Order int      `json:"order" binding:"min=1,max=8"`
	At    *float64 `json:"at"`
}

type HigherDerivativeResp struct {
	CurveResp
	Order int            `json:"order"`
	H     float64        `json:"h"`
	Value *export.Number `json:"value,omitempty"`
}

func (h *HttpEndpoints) higherDerivative(c *gin.Context) {
	var req HigherDerivativeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	step := h.higherStep
	if req.H != nil {
		step = *req.H
	}

	ctx, cancel := h.withBudget(c)
	defer cancel()

	d := req.domain(h.samples)
	pts, err := calculus.HigherDerivativeContext(ctx, req.Expression, d, step, req.Order)
	if h.overBudget(c, "higher-derivative", err) {
		return
	}
	if err == nil {
		err = calculus.CheckCurve(req.Expression, d, pts)
	}

	resp := HigherDerivativeResp{
		CurveResp: CurveResp{
			Expression: req.Expression,
			Points:     pts,
			Count:      len(pts),
			Error:      errorText(err),
		},
		Order: req.Order,
		H:     step,
	}
	if req.At != nil {
		v := export.Number(calculus.HigherDerivative(req.Expression, *req.At, step, req.Order))
		resp.Value = &v
	}
	c.JSON(http.StatusOK, resp)
}

type IntegralReq struct {
	Expression string  `json:"expression"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	N          *int    `json:"n" binding:"omitempty,min=1,max=1000000"`
}

type IntegralResp struct {
	Expression string        `json:"expression"`
	A          float64       `json:"a"`
	B          float64       `json:"b"`
	N          int           `json:"n"`
	Integral   export.Number `json:"integral"`
	Area       export.Number `json:"area"`
	Error      string        `json:"error,omitempty"`
}

func (h *HttpEndpoints) integral(c *gin.Context) {
	var req IntegralReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := h.riemannN
	if req.N != nil {
		n = *req.N
	}

	ctx, cancel := h.withBudget(c)
	defer cancel()

	integral, err := calculus.IntegralContext(ctx, req.Expression, req.A, req.B, n)
	if h.overBudget(c, "integral", err) {
		return
	}
	area, areaErr := calculus.AreaContext(ctx, req.Expression, req.A, req.B, n)
	if h.overBudget(c, "integral", areaErr) {
		return
	}
	if err == nil {
		err = areaErr
	}

	c.JSON(http.StatusOK, IntegralResp{
		Expression: req.Expression,
		A:          req.A,
		B:          req.B,
		N:          n,
		Integral:   export.Number(integral),
		Area:       export.Number(area),
		Error:      errorText(err),
	})
}
