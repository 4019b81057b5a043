package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/kardianos/osext"
	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/ctxhelper"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/models"
	"golang.org/x/net/context"
)

const (
	apiBasePath = "/api"
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// Defines an error that returns a machine-readable error code
type errorCoder interface {
	ErrorCode() string
}

// Defines an error that contains a data field with additional information
type dataBearer interface {
	Data() interface{}
}

type errorResponse struct {
	basicResponse
	// The error code
	Error   string      `json:"error"`
	Message string      `json:"errorMessage"`
	Details interface{} `json:"errorDetails,omitempty"`
}

// MakeHTTPHandler creates the main HTTP handler for the event dashboard service
func MakeHTTPHandler(
	es EventService,
	fs FeedbackService,
	ns *NotificationService,
	sServ SessionService,
	logger *logrus.Entry,
) http.Handler {
	r := mux.NewRouter()

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerBefore(makeSessionDecoder(sServ)),
	}

	// -- Event Service --------------------------------
	{
		evEp := MakeEventEndpoints(es, ns)

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/events").Handler(httptransport.NewServer(
			evEp.List,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/events").Handler(httptransport.NewServer(
			evEp.Create,
			decodeEventForm,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Update,
			decodeEventUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// AddParticipant - also used to update an existing roster entry (same phone number)
		r.Methods(http.MethodPost).Path(apiBasePath + "/events/{id:[0-9]+}/participants").Handler(httptransport.NewServer(
			evEp.AddParticipant,
			decodeParticipantAdd,
			encodeJSONResponse,
			options...,
		))

		// SetParticipantStatus
		r.Methods(http.MethodPut).Path(apiBasePath + "/events/{id:[0-9]+}/participants/{phone}").Handler(httptransport.NewServer(
			evEp.SetParticipantStatus,
			decodeParticipantStatus,
			encodeJSONResponse,
			options...,
		))

		// RemoveParticipant
		r.Methods(http.MethodDelete).Path(apiBasePath + "/events/{id:[0-9]+}/participants/{phone}").Handler(httptransport.NewServer(
			evEp.RemoveParticipant,
			decodeParticipantRef,
			encodeJSONResponse,
			options...,
		))

		// ReminderLink
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}/participants/{phone}/reminder").Handler(httptransport.NewServer(
			evEp.ReminderLink,
			decodeParticipantRef,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Feedback Service -----------------------------
	{
		fbEp := MakeFeedbackEndpoints(fs)

		// Submit
		r.Methods(http.MethodPost).Path(apiBasePath + "/events/{id:[0-9]+}/feedbacks").Handler(httptransport.NewServer(
			fbEp.Submit,
			decodeFeedbackSubmit,
			encodeJSONResponse,
			options...,
		))

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}/feedbacks").Handler(httptransport.NewServer(
			fbEp.List,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Stats
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}/feedbacks/stats").Handler(httptransport.NewServer(
			fbEp.Stats,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Session Service ------------------------------
	{
		sEp := MakeSessionEndpoints(sServ)

		// Login
		r.Methods(http.MethodPost).Path(apiBasePath + "/login").Handler(httptransport.NewServer(
			sEp.Login,
			decodeLoginRequest,
			encodeJSONResponse,
			options...,
		))

		// Logout
		r.Methods(http.MethodPost).Path(apiBasePath + "/logout").Handler(httptransport.NewServer(
			sEp.Logout,
			decodeToken,
			encodeJSONResponse,
			options...,
		))

		// WhoAmI
		r.Methods(http.MethodGet).Path(apiBasePath + "/whoami").Handler(httptransport.NewServer(
			sEp.WhoAmI,
			decodeToken,
			encodeJSONResponse,
			options...,
		))
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})

	// Plain file service for the UI serving everything from the "ui" folder right beside the application executable
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}
	uiDir := filepath.Join(execDir, "ui")
	r.Methods(http.MethodGet).PathPrefix("/").Handler(http.FileServer(http.Dir(uiDir)))

	return r
}

// decodeLoginRequest decodes a login request from the JSON body
func decodeLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return req, nil
}

// decodeToken gets the token from the call's context
func decodeToken(ctx context.Context, r *http.Request) (request interface{}, err error) {
	session := ctxhelper.Session(ctx)
	if session == nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeNotLoggedIn,
			"You need an active session for this operation",
		)
	}
	return session.ID, nil
}

// decodePaginationRequest reads the pagination information from the request's query variables
func decodePaginationRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	val := r.URL.Query()
	pag := Pagination{
		Limit: 50,
	}
	if i, err := strconv.ParseUint(val.Get("offset"), 10, 64); err == nil {
		pag.Offset = uint(i)
	}
	if i, err := strconv.ParseUint(val.Get("limit"), 10, 64); err == nil {
		pag.Limit = uint(i)
	}
	return pag, nil
}

// decodeSearchRequest decodes the parameters of a search by checking the GET variables "search", "limit" and "offset"
func decodeSearchRequest(ctx context.Context, r *http.Request) (request interface{}, err error) {
	pag, _ := decodePaginationRequest(ctx, r)
	search := Search{
		Search:     r.URL.Query().Get("search"),
		Pagination: pag.(Pagination),
	}
	return search, nil
}

// decodeEventForm reads the form values for creating an event from the request's JSON body
func decodeEventForm(_ context.Context, r *http.Request) (interface{}, error) {
	var form EventForm
	err := json.NewDecoder(r.Body).Decode(&form)
	if err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return form, nil
}

// Decodes an event update from a request where the ID of the event is in the path
func decodeEventUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	var upd models.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	id, err := getInt64FromPath("id", r)
	if err != nil {
		return nil, err
	}
	return eventUpdateRequest{ID: id, Update: upd}, nil
}

// Decodes a participant form from the body plus the event ID from the path
func decodeParticipantAdd(ctx context.Context, r *http.Request) (interface{}, error) {
	var form ParticipantForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	id, err := getInt64FromPath("id", r)
	if err != nil {
		return nil, err
	}
	return participantAddRequest{EventID: id, Form: form}, nil
}

// Decodes a participant status update from the body plus the participant reference
// from the path
func decodeParticipantStatus(ctx context.Context, r *http.Request) (interface{}, error) {
	var status ParticipantStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	ref, err := decodeParticipantRef(ctx, r)
	if err != nil {
		return nil, err
	}
	req := ref.(participantRefRequest)
	return participantStatusRequest{EventID: req.EventID, Phone: req.Phone, Status: status}, nil
}

// Decodes an event ID and a participant phone number from the path variables
func decodeParticipantRef(ctx context.Context, r *http.Request) (interface{}, error) {
	id, err := getInt64FromPath("id", r)
	if err != nil {
		return nil, err
	}
	vars := mux.Vars(r)
	phone, ok := vars["phone"]
	if !ok || phone == "" {
		return nil, MakeError(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Missing phone number")
	}
	return participantRefRequest{EventID: id, Phone: phone}, nil
}

// Decodes a feedback form from the body plus the event ID from the path
func decodeFeedbackSubmit(ctx context.Context, r *http.Request) (interface{}, error) {
	var form FeedbackForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	id, err := getInt64FromPath("id", r)
	if err != nil {
		return nil, err
	}
	return feedbackSubmitRequest{EventID: id, Form: form}, nil
}

// getInt64FromPath is a helper function that gets an int64 from the given path variable
func getInt64FromPath(varname string, r *http.Request) (int64, error) {
	errmsg := fmt.Sprintf("Value for '%s' is no valid integer", varname)
	vars := mux.Vars(r)
	str, ok := vars[varname]
	if !ok {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidID, errmsg)
	}
	id, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidID, errmsg)
	}
	return id, nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(ctx context.Context, r *http.Request) (interface{}, error) {
	return getInt64FromPath("id", r)
}

// Encodes a typical JSON response
func encodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// Builds an error response based on the incoming error
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if st, ok := err.(httpStatuser); ok {
		w.WriteHeader(st.Status())
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	ret := errorResponse{
		basicResponse: basicResponse{false, nil},
		Message:       err.Error(),
		Error:         ErrCodeUnknown,
	}
	if cd, ok := err.(errorCoder); ok {
		ret.Error = cd.ErrorCode()
	}
	if db, ok := err.(dataBearer); ok {
		if data := db.Data(); data != nil {
			if err, ok := data.(error); ok {
				ret.Details = err.Error()
			} else {
				ret.Details = data
			}
		}
	}
	json.NewEncoder(w).Encode(&ret)
}

// makeSessionDecoder returns a function that is used in every HTTP call to decode the session used, if a session
// token is sent by the client
func makeSessionDecoder(s SessionService) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := strings.TrimSpace(r.Header.Get("token"))
		logger := ctxhelper.Logger(ctx)
		if token != "" {
			// Try to load the session's data
			sess, err := s.GetContents(ctx, token, true)
			if err != nil {
				logger.WithError(err).WithField(log.FldSession, token).Error("Failed to retrieve session information")
				return ctx
			}
			if sess == nil {
				// Nobody logged in
				return ctx
			}
			ctx = context.WithValue(ctx, ctxhelper.KeySession, *sess)
			ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger.WithField(log.FldSession, sess.ID))
		}
		return ctx
	}
}

func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return context.WithValue(ctx, ctxhelper.KeyLogger, logger)
	}
}
