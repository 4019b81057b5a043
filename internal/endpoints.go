package internal

import (
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/yjcc/events/internal/models"
	"golang.org/x/net/context"
)

// EventEndpoints is a collection of endpoints for working with the event service
type EventEndpoints struct {
	List                 endpoint.Endpoint
	Get                  endpoint.Endpoint
	Create               endpoint.Endpoint
	Update               endpoint.Endpoint
	Delete               endpoint.Endpoint
	AddParticipant       endpoint.Endpoint
	SetParticipantStatus endpoint.Endpoint
	RemoveParticipant    endpoint.Endpoint
	ReminderLink         endpoint.Endpoint
}

// FeedbackEndpoints is a collection of endpoints for working with the feedback service
type FeedbackEndpoints struct {
	Submit endpoint.Endpoint
	List   endpoint.Endpoint
	Stats  endpoint.Endpoint
}

// SessionEndpoints is a collection of endpoints for working with the session service
type SessionEndpoints struct {
	Login  endpoint.Endpoint
	Logout endpoint.Endpoint
	WhoAmI endpoint.Endpoint
}

// The base for all responses which always contains an "ok" property to show if the call was successful and a
// data element containing the result of the request
type basicResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

type pagingResponse struct {
	Rows uint        `json:"rows"`
	List interface{} `json:"list"`
}

// A request made when logging in
type loginRequest struct {
	Code string `json:"code"`
}

// A request that applies a partial update to an event
type eventUpdateRequest struct {
	ID     int64
	Update models.EventUpdate
}

// A request that adds or updates a participant on an event's roster
type participantAddRequest struct {
	EventID int64
	Form    ParticipantForm
}

// A request that references one participant of an event by phone number
type participantRefRequest struct {
	EventID int64
	Phone   string
}

// A request that flips the status flags of one participant
type participantStatusRequest struct {
	EventID int64
	Phone   string
	Status  ParticipantStatusUpdate
}

// A request that submits feedback for an event
type feedbackSubmitRequest struct {
	EventID int64
	Form    FeedbackForm
}

// -- Events -----------------------------------------------------------------------------------------------------------

// MakeEventEndpoints builds the endpoints needed to communicate with the event service
func MakeEventEndpoints(s EventService, ns *NotificationService) EventEndpoints {
	return EventEndpoints{
		List:                 EnsureAdmin(makeListEventsEndpoint(s)),
		Get:                  EnsureAdmin(makeGetEventEndpoint(s)),
		Create:               EnsureAdmin(makeCreateEventEndpoint(s)),
		Update:               EnsureAdmin(makeUpdateEventEndpoint(s)),
		Delete:               EnsureAdmin(makeDeleteEventEndpoint(s)),
		AddParticipant:       EnsureAdmin(makeAddParticipantEndpoint(s)),
		SetParticipantStatus: EnsureAdmin(makeSetParticipantStatusEndpoint(s)),
		RemoveParticipant:    EnsureAdmin(makeRemoveParticipantEndpoint(s)),
		ReminderLink:         EnsureAdmin(makeReminderLinkEndpoint(ns)),
	}
}

func makeListEventsEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		se, ok := request.(Search)
		if !ok {
			return nil, fmt.Errorf("illegal search parameter")
		}
		list, numRows, err := s.List(ctx, &se)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, pagingResponse{numRows, list}}, nil
	}
}

func makeGetEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(int64)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		ev, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeCreateEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		form, ok := request.(EventForm)
		if !ok {
			return nil, fmt.Errorf("illegal event parameter")
		}
		ev, err := s.Create(ctx, form)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeUpdateEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(eventUpdateRequest)
		if !ok {
			return nil, fmt.Errorf("illegal event update parameter")
		}
		ev, err := s.Update(ctx, req.ID, req.Update)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeDeleteEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(int64)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeAddParticipantEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(participantAddRequest)
		if !ok {
			return nil, fmt.Errorf("illegal participant parameter")
		}
		ev, err := s.AddParticipant(ctx, req.EventID, req.Form)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeSetParticipantStatusEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(participantStatusRequest)
		if !ok {
			return nil, fmt.Errorf("illegal participant status parameter")
		}
		ev, err := s.SetParticipantStatus(ctx, req.EventID, req.Phone, req.Status)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeRemoveParticipantEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(participantRefRequest)
		if !ok {
			return nil, fmt.Errorf("illegal participant reference")
		}
		ev, err := s.RemoveParticipant(ctx, req.EventID, req.Phone)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeReminderLinkEndpoint(ns *NotificationService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(participantRefRequest)
		if !ok {
			return nil, fmt.Errorf("illegal participant reference")
		}
		link, err := ns.ReminderLink(ctx, req.EventID, req.Phone)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, map[string]string{"link": link}}, nil
	}
}

// -- Feedback ---------------------------------------------------------------------------------------------------------

// MakeFeedbackEndpoints builds the endpoints needed to communicate with the feedback service.
// Submitting feedback is open to everyone - participants follow a link; reading it is
// an administrator function
func MakeFeedbackEndpoints(s FeedbackService) FeedbackEndpoints {
	return FeedbackEndpoints{
		Submit: makeSubmitFeedbackEndpoint(s),
		List:   EnsureAdmin(makeListFeedbackEndpoint(s)),
		Stats:  EnsureAdmin(makeFeedbackStatsEndpoint(s)),
	}
}

func makeSubmitFeedbackEndpoint(s FeedbackService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(feedbackSubmitRequest)
		if !ok {
			return nil, fmt.Errorf("illegal feedback parameter")
		}
		fb, err := s.Submit(ctx, req.EventID, req.Form)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, fb}, nil
	}
}

func makeListFeedbackEndpoint(s FeedbackService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(int64)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		list, err := s.List(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, list}, nil
	}
}

func makeFeedbackStatsEndpoint(s FeedbackService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(int64)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		stats, err := s.Stats(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, stats}, nil
	}
}

// -- Sessions ---------------------------------------------------------------------------------------------------------

// MakeSessionEndpoints builds the endpoints needed to communicate with the session service
func MakeSessionEndpoints(s SessionService) SessionEndpoints {
	return SessionEndpoints{
		Login:  makeLoginEndpoint(s),
		Logout: makeLogoutEndpoint(s),
		WhoAmI: makeWhoAmIEndpoint(s),
	}
}

func makeLoginEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(loginRequest)
		if !ok {
			return nil, fmt.Errorf("illegal login request")
		}
		si, err := s.Login(ctx, req.Code)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}

func makeLogoutEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		if err := s.Logout(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeWhoAmIEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		si, err := s.WhoAmI(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}
