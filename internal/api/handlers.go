package api

import (
	"fmt"
	"net/http"
	"strconv"

	"productive-boards/internal/model"
	"productive-boards/internal/repository"
	"productive-boards/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type taskRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      model.TaskStatus   `json:"status"`
	Priority    model.TaskPriority `json:"priority"`
	AssigneeID  *uint              `json:"assignee_id"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var body registerRequest
	if err := decodeJSON(request, &body); err != nil {
		s.writeError(writer, request, err)
		return
	}
	user, err := s.services.Auth.Register(request.Context(), service.RegisterInput(body))
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusCreated, newUserView(*user))
}

func (s *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := decodeJSON(request, &body); err != nil {
		s.writeError(writer, request, err)
		return
	}
	token, err := s.services.Auth.Login(request.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Projects

func (s *Server) handleCreateProject(writer http.ResponseWriter, request *http.Request, principal uint) {
	var body projectRequest
	if err := decodeJSON(request, &body); err != nil {
		s.writeError(writer, request, err)
		return
	}
	project, err := s.services.Projects.Create(request.Context(), principal, service.ProjectInput(body))
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusCreated, newProjectView(project))
}

func (s *Server) handleListProjects(writer http.ResponseWriter, request *http.Request, principal uint) {
	projects, err := s.services.Projects.ListMine(request.Context(), principal)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newProjectViews(projects))
}

func (s *Server) handleGetProject(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	project, err := s.services.Projects.Get(request.Context(), principal, projectID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newProjectView(project))
}

func (s *Server) handleUpdateProject(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	var patch service.ProjectPatch
	if err := decodeJSON(request, &patch); err != nil {
		s.writeError(writer, request, err)
		return
	}
	project, err := s.services.Projects.Update(request.Context(), principal, projectID, patch)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newProjectView(project))
}

func (s *Server) handleDeleteProject(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	if err := s.services.Projects.Delete(request.Context(), principal, projectID); err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeDetail(writer, http.StatusOK, "Project deleted successfully")
}

func (s *Server) handleListMembers(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	members, err := s.services.Projects.ListMembers(request.Context(), principal, projectID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newUserViews(members))
}

func (s *Server) handleAddMember(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, userID, err := memberPath(request)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	member, err := s.services.Projects.AddMember(request.Context(), principal, projectID, userID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeDetail(writer, http.StatusOK, fmt.Sprintf("%s added as member", member.Name))
}

func (s *Server) handleRemoveMember(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, userID, err := memberPath(request)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	member, err := s.services.Projects.RemoveMember(request.Context(), principal, projectID, userID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeDetail(writer, http.StatusOK, fmt.Sprintf("%s removed", member.Name))
}

func memberPath(request *http.Request) (projectID, userID uint, err error) {
	if projectID, err = pathID(request, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = pathID(request, "user_id"); err != nil {
		return 0, 0, err
	}
	return projectID, userID, nil
}

// Tasks

func (s *Server) handleCreateTask(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "project_id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	var body taskRequest
	if err := decodeJSON(request, &body); err != nil {
		s.writeError(writer, request, err)
		return
	}
	task, err := s.services.Tasks.Create(request.Context(), principal, projectID, service.TaskInput(body))
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusCreated, newTaskView(task))
}

func (s *Server) handleListTasks(writer http.ResponseWriter, request *http.Request, principal uint) {
	projectID, err := pathID(request, "project_id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	filter, err := taskFilter(request)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	tasks, err := s.services.Tasks.List(request.Context(), principal, projectID, filter)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newTaskViews(tasks))
}

// taskFilter reads the optional status, priority and assignee_id query
// parameters. Empty parameters are ignored.
func taskFilter(request *http.Request) (repository.TaskFilter, error) {
	var filter repository.TaskFilter
	query := request.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status := model.TaskStatus(raw)
		if !status.IsValid() {
			return filter, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("invalid status %q", raw)}
		}
		filter.Status = &status
	}
	if raw := query.Get("priority"); raw != "" {
		priority := model.TaskPriority(raw)
		if !priority.IsValid() {
			return filter, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("invalid priority %q", raw)}
		}
		filter.Priority = &priority
	}
	if raw := query.Get("assignee_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("invalid assignee_id %q", raw)}
		}
		assigneeID := uint(id)
		filter.AssigneeID = &assigneeID
	}
	return filter, nil
}

func (s *Server) handleGetTask(writer http.ResponseWriter, request *http.Request, principal uint) {
	taskID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	task, err := s.services.Tasks.Get(request.Context(), principal, taskID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newTaskView(task))
}

func (s *Server) handleUpdateTask(writer http.ResponseWriter, request *http.Request, principal uint) {
	taskID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	var patch service.TaskPatch
	if err := decodeJSON(request, &patch); err != nil {
		s.writeError(writer, request, err)
		return
	}
	task, err := s.services.Tasks.Update(request.Context(), principal, taskID, patch)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newTaskView(task))
}

func (s *Server) handleTransition(status model.TaskStatus) principalHandler {
	return func(writer http.ResponseWriter, request *http.Request, principal uint) {
		taskID, err := pathID(request, "id")
		if err != nil {
			s.writeError(writer, request, err)
			return
		}
		task, err := s.services.Tasks.Transition(request.Context(), principal, taskID, status)
		if err != nil {
			s.writeError(writer, request, err)
			return
		}
		writeJSON(writer, http.StatusOK, newTaskView(task))
	}
}

func (s *Server) handleDeleteTask(writer http.ResponseWriter, request *http.Request, principal uint) {
	taskID, err := pathID(request, "id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	if err := s.services.Tasks.Delete(request.Context(), principal, taskID); err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeDetail(writer, http.StatusOK, "Task deleted successfully")
}

// Comments

func (s *Server) handleCreateComment(writer http.ResponseWriter, request *http.Request, principal uint) {
	taskID, err := pathID(request, "task_id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	var body commentRequest
	if err := decodeJSON(request, &body); err != nil {
		s.writeError(writer, request, err)
		return
	}
	comment, err := s.services.Comments.Create(request.Context(), principal, taskID, body.Content)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusCreated, newCommentView(comment))
}

func (s *Server) handleListComments(writer http.ResponseWriter, request *http.Request, principal uint) {
	taskID, err := pathID(request, "task_id")
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	comments, err := s.services.Comments.List(request.Context(), principal, taskID)
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newCommentViews(comments))
}

// Users

func (s *Server) handleListUsers(writer http.ResponseWriter, request *http.Request, principal uint) {
	users, err := s.services.Users.List(request.Context())
	if err != nil {
		s.writeError(writer, request, err)
		return
	}
	writeJSON(writer, http.StatusOK, newUserViews(users))
}
