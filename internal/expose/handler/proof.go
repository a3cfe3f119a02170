package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mapprotocol/stateproof/internal/expose"
	"github.com/mapprotocol/stateproof/internal/expose/metrics"
	"github.com/mapprotocol/stateproof/internal/expose/service"
	"github.com/mapprotocol/stateproof/internal/proof"
)

type Expose struct {
	cfg      *expose.Config
	proofSrv *service.ProofSrv
	metrics  *metrics.Metrics
}

func New(cfg *expose.Config, srv *service.ProofSrv, m *metrics.Metrics) *Expose {
	return &Expose{cfg: cfg, proofSrv: srv, metrics: m}
}

// ErrorResponse is the body of every non-200 answer.
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func (e *Expose) StateProof(c *gin.Context) {
	enc, err := negotiate(c)
	if err != nil {
		e.fail(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, e.cfg.Other.MaxBodyBytes)
	req, err := proof.DecodeRequest(c.Request.Body)
	if err != nil {
		e.fail(c, err)
		return
	}

	env, err := e.proofSrv.Handle(c.Request.Context(), req)
	if err != nil {
		e.fail(c, err)
		return
	}

	data, err := e.proofSrv.Encode(c.Request.Context(), env, enc)
	if err != nil {
		e.fail(c, err)
		return
	}

	e.metrics.Request(metrics.HTTP, "ok")
	c.Data(http.StatusOK, enc.ContentType(), data)
}

func (e *Expose) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (e *Expose) fail(c *gin.Context, err error) {
	stage := proof.StageOf(err)
	outcome := string(stage)
	if stage == proof.StageUnknown {
		outcome = "unknown"
	}
	e.metrics.Request(metrics.HTTP, outcome)

	status := StatusOf(err)
	c.JSON(status, Error2Response(status, err))
}

// StatusOf maps a pipeline error to its HTTP status.
func StatusOf(err error) int {
	if proof.StageOf(err) == proof.StageValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func Error2Response(status int, err error) ErrorResponse {
	return ErrorResponse{Status: status, Error: err.Error()}
}

// negotiate picks the envelope encoding from ?encoding=, then from Accept.
func negotiate(c *gin.Context) (proof.Encoding, error) {
	if v, ok := c.GetQuery("encoding"); ok {
		return proof.ParseEncoding(v)
	}
	if strings.Contains(c.GetHeader("Accept"), proof.ContentTypeCramberry) {
		return proof.EncodingCramberry, nil
	}
	return proof.EncodingJSON, nil
}
