package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/coursesync"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/requestdata"
	"github.com/studypath/studypath-backend/internal/services"
	"github.com/studypath/studypath-backend/internal/types"
)

type SyncHandler struct {
	log         *logger.Logger
	syncService services.SyncService
}

func NewSyncHandler(log *logger.Logger, syncService services.SyncService) *SyncHandler {
	return &SyncHandler{
		log:         log.With("handler", "SyncHandler"),
		syncService: syncService,
	}
}

// stateResponse mirrors coursesync.State for the wire; the error field
// flattens to a message string.
type stateResponse struct {
	Course       *types.Course        `json:"course"`
	Modules      []*types.Module      `json:"modules"`
	Lessons      []*types.Lesson      `json:"lessons"`
	Progress     types.Progress       `json:"progress"`
	Enrollment   string               `json:"enrollment"`
	Achievements []*types.Achievement `json:"achievements"`
	Reviews      []*types.Review      `json:"reviews"`
	Loading      bool                 `json:"loading"`
	Error        *string              `json:"error"`
	Mutating     bool                 `json:"mutating"`
	Undoing      bool                 `json:"undoing"`
	UndoSuccess  bool                 `json:"undo_success"`
}

func newStateResponse(st coursesync.State) stateResponse {
	resp := stateResponse{
		Course:       st.Course,
		Modules:      st.Modules,
		Lessons:      st.Lessons,
		Progress:     st.Progress,
		Enrollment:   st.Enrollment,
		Achievements: st.Achievements,
		Reviews:      st.Reviews,
		Loading:      st.Loading,
		Mutating:     st.Mutating,
		Undoing:      st.Undoing,
		UndoSuccess:  st.UndoSuccess,
	}
	if resp.Modules == nil {
		resp.Modules = []*types.Module{}
	}
	if resp.Lessons == nil {
		resp.Lessons = []*types.Lesson{}
	}
	if resp.Achievements == nil {
		resp.Achievements = []*types.Achievement{}
	}
	if resp.Reviews == nil {
		resp.Reviews = []*types.Review{}
	}
	if st.Err != nil {
		msg := st.Err.Error()
		resp.Error = &msg
	}
	return resp
}

func learnerID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.LearnerID
}

func (h *SyncHandler) session(c *gin.Context) (*coursesync.Session, uuid.UUID, bool) {
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return nil, uuid.Nil, false
	}
	session, err := h.syncService.GetOrCreate(c.Request.Context(), learnerID(c), courseID)
	if err != nil {
		h.log.Error("session create failed", "error", err, "course_id", courseID)
		RespondError(c, http.StatusInternalServerError, "session_failed", err)
		return nil, uuid.Nil, false
	}
	return session, courseID, true
}

// GetCourseState returns the session snapshot, creating and loading the
// session on first access. Anonymous learners get a read-only view with zero
// progress.
func (h *SyncHandler) GetCourseState(c *gin.Context) {
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	RespondOK(c, newStateResponse(session.State()))
}

// RefreshCourseState reloads the hierarchy and resolvers.
func (h *SyncHandler) RefreshCourseState(c *gin.Context) {
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	session.Refresh(c.Request.Context())
	RespondOK(c, newStateResponse(session.State()))
}

// CompleteLesson marks the lesson complete. The mutation itself never fails
// the request: a rejected remote write surfaces through the state's error
// field after rollback.
func (h *SyncHandler) CompleteLesson(c *gin.Context) {
	if learnerID(c) == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	session.Complete(c.Request.Context(), lessonID)
	RespondOK(c, newStateResponse(session.State()))
}

// UndoLesson reverts the learner's completion of the lesson.
func (h *SyncHandler) UndoLesson(c *gin.Context) {
	if learnerID(c) == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	session.Undo(c.Request.Context(), lessonID)
	RespondOK(c, newStateResponse(session.State()))
}

func (h *SyncHandler) ClearError(c *gin.Context) {
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	session.ClearError()
	RespondOK(c, newStateResponse(session.State()))
}

func (h *SyncHandler) ClearUndoSuccess(c *gin.Context) {
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	session.ClearUndoSuccess()
	RespondOK(c, newStateResponse(session.State()))
}

// CloseSession discards the learner's session for the course, mirroring the
// view unmounting.
func (h *SyncHandler) CloseSession(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	h.syncService.Close(learnerID(c), courseID)
	RespondOK(c, gin.H{"closed": true})
}
