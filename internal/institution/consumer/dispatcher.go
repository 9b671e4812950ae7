// Package consumer is the message-queue transport adapter. It decodes named
// request patterns into the same domain-service calls the HTTP handler makes
// and encodes replies with the same payload structs, so business payloads are
// identical across transports.
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"mediq/internal/health"
	"mediq/internal/institution/handler"
	"mediq/internal/institution/models"
	dErrors "mediq/pkg/domain-errors"
)

// Request pattern names, mirroring the HTTP surface.
const (
	PatternCreate      = "institution.create"
	PatternFindAll     = "institution.findAll"
	PatternFindOne     = "institution.findOne"
	PatternUpdate      = "institution.update"
	PatternDelete      = "institution.delete"
	PatternGetServices = "institution.getServices"
	PatternFindByName  = "institution.findByName"
	PatternHealthCheck = "health.check"
)

// Reply statuses. Create maps to "created" and delete to "no_content" the way
// the HTTP adapter maps them to 201 and 204.
const (
	StatusOK        = "ok"
	StatusCreated   = "created"
	StatusNoContent = "no_content"
	StatusError     = "error"
)

// Request is a decoded message-queue request.
type Request struct {
	Pattern       string
	CorrelationID string
	ReplyTo       string
	Payload       json.RawMessage
}

// Reply is the wire envelope for every response.
type Reply struct {
	Status           string          `json:"status"`
	Data             json.RawMessage `json:"data,omitempty"`
	Error            string          `json:"error,omitempty"`
	ErrorDescription string          `json:"error_description,omitempty"`
}

// HandlerFunc handles one pattern's payload and returns the business result.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

type patternHandler struct {
	fn            HandlerFunc
	successStatus string
}

// Dispatcher routes requests to pattern handlers. It is transport independent
// and unit testable without a broker; the Kafka consumer feeds it records.
type Dispatcher struct {
	handlers map[string]patternHandler
	logger   *slog.Logger
}

// NewDispatcher wires the institution service and health reporter to their
// patterns.
func NewDispatcher(svc handler.Service, reporter *health.Reporter, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]patternHandler), logger: logger}

	d.register(PatternCreate, StatusCreated, func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := decode[models.CreateInstitutionRequest](payload)
		if err != nil {
			return nil, err
		}
		return svc.Create(ctx, req)
	})

	d.register(PatternFindAll, StatusOK, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return svc.List(ctx)
	})

	d.register(PatternFindOne, StatusOK, func(ctx context.Context, payload json.RawMessage) (any, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return svc.GetDetail(ctx, id)
	})

	d.register(PatternUpdate, StatusOK, func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := decode[updateRequest](payload)
		if err != nil {
			return nil, err
		}
		return svc.Update(ctx, req.parsedID, &req.UpdateData)
	})

	d.register(PatternDelete, StatusNoContent, func(ctx context.Context, payload json.RawMessage) (any, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return svc.Remove(ctx, id)
	})

	d.register(PatternGetServices, StatusOK, func(ctx context.Context, payload json.RawMessage) (any, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return svc.ListServices(ctx, id)
	})

	d.register(PatternFindByName, StatusOK, func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := decode[findByNameRequest](payload)
		if err != nil {
			return nil, err
		}
		return svc.SearchByName(ctx, req.Name)
	})

	d.register(PatternHealthCheck, StatusOK, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return reporter.Health(), nil
	})

	return d
}

func (d *Dispatcher) register(pattern, successStatus string, fn HandlerFunc) {
	d.handlers[pattern] = patternHandler{fn: fn, successStatus: successStatus}
}

// Dispatch runs the handler for the request's pattern and builds the reply
// envelope. Domain errors map to their codes; internal descriptions are
// omitted just as they are on the HTTP side.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Reply {
	h, ok := d.handlers[req.Pattern]
	if !ok {
		d.logger.WarnContext(ctx, "no handler for pattern",
			"pattern", req.Pattern,
			"correlation_id", req.CorrelationID,
		)
		return errorReply(dErrors.Newf(dErrors.CodeBadRequest, "unknown pattern %q", req.Pattern))
	}

	data, err := h.fn(ctx, req.Payload)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			d.logger.ErrorContext(ctx, "pattern handler failed",
				"pattern", req.Pattern,
				"correlation_id", req.CorrelationID,
				"error", err.Error(),
			)
		}
		return errorReply(err)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return errorReply(dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode reply"))
	}
	return Reply{Status: h.successStatus, Data: body}
}

func errorReply(err error) Reply {
	code := dErrors.CodeOf(err)
	reply := Reply{Status: StatusError, Error: string(code)}
	if code != dErrors.CodeInternal {
		reply.ErrorDescription = err.Error()
	}
	return reply
}

// Payload shapes for id-addressed patterns.

type idRequest struct {
	ID string `json:"id"`
}

func decodeID(payload json.RawMessage) (uuid.UUID, error) {
	req, err := decode[idRequest](payload)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id must be a valid UUID")
	}
	return id, nil
}

type updateRequest struct {
	ID         string                          `json:"id"`
	UpdateData models.UpdateInstitutionRequest `json:"updateData"`

	parsedID uuid.UUID
}

func (r *updateRequest) Validate() error {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "id must be a valid UUID")
	}
	r.parsedID = id
	return r.UpdateData.Validate()
}

type findByNameRequest struct {
	Name string `json:"name"`
}

func (r *findByNameRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *idRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	return nil
}

// decode unmarshals and validates a pattern payload before the service runs.
func decode[T any, PT interface {
	*T
	validatable
}](payload json.RawMessage) (PT, error) {
	req := PT(new(T))
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, req); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request payload")
		}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

type validatable interface {
	Validate() error
}
