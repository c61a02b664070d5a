package router

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/password"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/repository/memory"
	authUC "github.com/fastygo/taskflow/usecase/auth"
	"github.com/fastygo/taskflow/usecase/onboarding"
	projectUC "github.com/fastygo/taskflow/usecase/project"
	taskUC "github.com/fastygo/taskflow/usecase/task"
	teamUC "github.com/fastygo/taskflow/usecase/team"
)

type testServer struct {
	handler fasthttp.RequestHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	tokens, err := token.New("test-secret", token.WithIssuer("taskflow"))
	require.NoError(t, err)

	adapter := httpcontext.NewAdapter(0)
	seeder := onboarding.New(store.Onboarding(), nil, nil)
	auth := authUC.New(store.Users(), store.Revocations(), tokens, password.NewHasher(4), seeder, nil)

	mon := monitor.New(store, nil, nil, 0, nil)
	mon.Refresh()

	handlers := Handlers{
		Auth:    apiHandler.NewAuthHandler(auth, adapter, nil),
		Team:    apiHandler.NewTeamHandler(teamUC.New(store.Teams(), nil), adapter, nil),
		Project: apiHandler.NewProjectHandler(projectUC.New(store.Teams(), store.Projects(), nil), adapter, nil),
		Task: apiHandler.NewTaskHandler(
			taskUC.New(store.Users(), store.Teams(), store.Projects(), store.Tasks(), taskUC.Policy{}, nil),
			adapter, nil,
		),
		Health: apiHandler.NewHealthHandler(mon, adapter, nil),
	}

	r := New(handlers, middleware.JWTAuth(auth, adapter, nil), nil)
	return &testServer{handler: r.Handler}
}

// do runs one request and decodes the JSON response into out when non-nil.
func (s *testServer) do(t *testing.T, method, path, tok, body string, out interface{}) int {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if tok != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}

	s.handler(&ctx)

	require.Equal(t, "application/json", string(ctx.Response.Header.ContentType()), "%s %s", method, path)
	if out != nil {
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), out), string(ctx.Response.Body()))
	}
	return ctx.Response.StatusCode()
}

type errorBody struct {
	Error string `json:"error"`
}

type sessionBody struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

func (s *testServer) signup(t *testing.T, email string) sessionBody {
	t.Helper()
	var out sessionBody
	code := s.do(t, "POST", "/auth/signup", "", fmt.Sprintf(`{"email":%q,"password":"pw","name":"N"}`, email), &out)
	require.Equal(t, 200, code)
	return out
}

func TestSignupSeedsWorkspace(t *testing.T) {
	s := newTestServer(t)
	session := s.signup(t, "a@example.com")
	require.NotEmpty(t, session.Token)
	require.Equal(t, "a@example.com", session.User.Email)

	var me struct {
		User domain.PublicUser `json:"user"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/auth/me", session.Token, "", &me))
	require.Equal(t, session.User, me.User)

	var teams struct {
		Teams []domain.Team `json:"teams"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/teams", session.Token, "", &teams))
	require.Len(t, teams.Teams, 1)
	require.Equal(t, "My First Team", teams.Teams[0].Name)
	require.Equal(t, session.User.ID, teams.Teams[0].Owner.ID)

	var projects struct {
		Projects []domain.Project `json:"projects"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/api/projects", session.Token, "", &projects))
	require.Len(t, projects.Projects, 1)
	require.Equal(t, "Sample Project", projects.Projects[0].Name)

	var tasks struct {
		Tasks []domain.Task `json:"tasks"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/tasks", session.Token, "", &tasks))
	require.Len(t, tasks.Tasks, 8)
	counts := map[domain.TaskStatus]int{}
	for _, task := range tasks.Tasks {
		counts[task.Status]++
	}
	require.Equal(t, 3, counts[domain.StatusTodo])
	require.Equal(t, 2, counts[domain.StatusInProgress])
	require.Equal(t, 3, counts[domain.StatusDone])
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "a@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		code   int
		msg    string
	}{
		{name: "duplicate signup", method: "POST", path: "/auth/signup", body: `{"email":"a@example.com","password":"x","name":"B"}`, code: 400, msg: "User already exists"},
		{name: "missing signup fields", method: "POST", path: "/auth/signup", body: `{"email":"b@example.com"}`, code: 400, msg: "Missing required fields"},
		{name: "missing login fields", method: "POST", path: "/auth/login", body: `{"email":"a@example.com"}`, code: 400, msg: "Missing email or password"},
		{name: "wrong password", method: "POST", path: "/auth/login", body: `{"email":"a@example.com","password":"nope"}`, code: 401, msg: "Invalid credentials"},
		{name: "unknown email", method: "POST", path: "/auth/login", body: `{"email":"z@example.com","password":"pw"}`, code: 401, msg: "Invalid credentials"},
		{name: "malformed body", method: "POST", path: "/auth/login", body: `{`, code: 400, msg: "Invalid request body"},
		{name: "no token", method: "GET", path: "/auth/me", code: 401, msg: "No token provided"},
		{name: "bad token", method: "GET", path: "/teams", token: "garbage", code: 401, msg: "Invalid token"},
		{name: "unknown route", method: "GET", path: "/nope", code: 404, msg: "Not found"},
		{name: "wrong method", method: "PATCH", path: "/tasks", code: 404, msg: "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out errorBody
			require.Equal(t, tt.code, s.do(t, tt.method, tt.path, tt.token, tt.body, &out))
			require.Equal(t, tt.msg, out.Error)
		})
	}
}

func TestTeamProjectTaskFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup(t, "alice@example.com")
	bob := s.signup(t, "bob@example.com")

	var errOut errorBody
	require.Equal(t, 400, s.do(t, "POST", "/teams", alice.Token, `{"description":"x"}`, &errOut))
	require.Equal(t, "Team name is required", errOut.Error)

	var team struct {
		Team domain.Team `json:"team"`
	}
	require.Equal(t, 200, s.do(t, "POST", "/teams", alice.Token, `{"name":"Core","description":"d"}`, &team))
	require.Equal(t, []string{alice.User.ID}, team.Team.Members)

	require.Equal(t, 403, s.do(t, "POST", "/projects", bob.Token, fmt.Sprintf(`{"name":"P","teamId":%q}`, team.Team.ID), &errOut))
	require.Equal(t, "Team not found or access denied", errOut.Error)

	var project struct {
		Project domain.Project `json:"project"`
	}
	require.Equal(t, 200, s.do(t, "POST", "/projects", alice.Token, fmt.Sprintf(`{"name":"P","teamId":%q}`, team.Team.ID), &project))
	require.Equal(t, "Core", project.Project.Team.Name)

	require.Equal(t, 403, s.do(t, "POST", "/tasks", bob.Token, fmt.Sprintf(`{"title":"T","projectId":%q}`, project.Project.ID), &errOut))
	require.Equal(t, "Access denied", errOut.Error)
	require.Equal(t, 404, s.do(t, "POST", "/tasks", alice.Token, `{"title":"T","projectId":"missing"}`, &errOut))
	require.Equal(t, "Project not found", errOut.Error)
	require.Equal(t, 400, s.do(t, "POST", "/tasks", alice.Token, `{"title":"T"}`, &errOut))
	require.Equal(t, "Title and project are required", errOut.Error)

	var task struct {
		Task domain.Task `json:"task"`
	}
	body := fmt.Sprintf(`{"title":"Ship","projectId":%q,"dueDate":"2030-01-02"}`, project.Project.ID)
	require.Equal(t, 200, s.do(t, "POST", "/tasks", alice.Token, body, &task))
	require.Equal(t, domain.StatusTodo, task.Task.Status)
	require.Equal(t, domain.PriorityMedium, task.Task.Priority)
	require.Equal(t, "P", task.Task.Project.Name)
	require.Equal(t, alice.User.ID, task.Task.AssignedTo.ID)
	require.NotNil(t, task.Task.DueDate)

	var listed struct {
		Tasks []domain.Task `json:"tasks"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/tasks?projectId="+project.Project.ID, alice.Token, "", &listed))
	require.Len(t, listed.Tasks, 1)

	var updated struct {
		Task domain.Task `json:"task"`
	}
	require.Equal(t, 200, s.do(t, "PUT", "/api/tasks/"+task.Task.ID, alice.Token, `{"status":"done","dueDate":null}`, &updated))
	require.Equal(t, domain.StatusDone, updated.Task.Status)
	require.Equal(t, "Ship", updated.Task.Title)
	require.Nil(t, updated.Task.DueDate)

	require.Equal(t, 400, s.do(t, "PUT", "/tasks/"+task.Task.ID, alice.Token, `{"priority":"urgent"}`, &errOut))
	require.Equal(t, 404, s.do(t, "PUT", "/tasks/missing", alice.Token, `{"status":"done"}`, &errOut))
	require.Equal(t, "Task not found", errOut.Error)

	var msg struct {
		Message string `json:"message"`
	}
	require.Equal(t, 200, s.do(t, "DELETE", "/tasks/"+task.Task.ID, alice.Token, "", &msg))
	require.Equal(t, "Task deleted successfully", msg.Message)
	require.Equal(t, 404, s.do(t, "DELETE", "/tasks/"+task.Task.ID, alice.Token, "", &errOut))
	require.Equal(t, "Task not found", errOut.Error)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	session := s.signup(t, "a@example.com")

	var msg struct {
		Message string `json:"message"`
	}
	require.Equal(t, 200, s.do(t, "POST", "/auth/logout", session.Token, "", &msg))
	require.Equal(t, "Logged out", msg.Message)

	var errOut errorBody
	require.Equal(t, 401, s.do(t, "GET", "/auth/me", session.Token, "", &errOut))
	require.Equal(t, "Invalid token", errOut.Error)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var out struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	require.Equal(t, 200, s.do(t, "GET", "/health", "", "", &out))
	require.Equal(t, "ok", out.Status)
	require.True(t, out.Services["database"])
}

func TestRoutesAreProtected(t *testing.T) {
	for _, route := range Routes(Handlers{
		Auth:    &apiHandler.AuthHandler{},
		Team:    &apiHandler.TeamHandler{},
		Project: &apiHandler.ProjectHandler{},
		Task:    &apiHandler.TaskHandler{},
	}) {
		public := route.Path == "/auth/signup" || route.Path == "/auth/login"
		require.Equal(t, !public, route.Protected, "%s %s", route.Method, route.Path)
	}
}

func TestSignupLoginLongPassword(t *testing.T) {
	s := newTestServer(t)
	pw := strings.Repeat("p", 80)

	var session sessionBody
	body := fmt.Sprintf(`{"email":"long@example.com","password":%q,"name":"L"}`, pw)
	require.Equal(t, 200, s.do(t, "POST", "/auth/signup", "", body, &session))
	require.NotEmpty(t, session.Token)

	var login sessionBody
	body = fmt.Sprintf(`{"email":"long@example.com","password":%q}`, pw)
	require.Equal(t, 200, s.do(t, "POST", "/auth/login", "", body, &login))
	require.Equal(t, session.User.ID, login.User.ID)
}

func TestResponseIDKeys(t *testing.T) {
	s := newTestServer(t)
	session := s.signup(t, "a@example.com")

	var auth map[string]map[string]interface{}
	require.Equal(t, 200, s.do(t, "GET", "/auth/me", session.Token, "", &auth))
	require.Contains(t, auth["user"], "id")
	require.NotContains(t, auth["user"], "_id")

	var teams map[string][]map[string]interface{}
	require.Equal(t, 200, s.do(t, "GET", "/api/teams", session.Token, "", &teams))
	require.Len(t, teams["teams"], 1)
	require.Contains(t, teams["teams"][0], "_id")
	require.NotContains(t, teams["teams"][0], "id")
	require.Contains(t, teams["teams"][0]["owner"], "_id")

	var projects map[string][]map[string]interface{}
	require.Equal(t, 200, s.do(t, "GET", "/api/projects", session.Token, "", &projects))
	require.Len(t, projects["projects"], 1)
	require.Contains(t, projects["projects"][0], "_id")
	require.Contains(t, projects["projects"][0]["team"], "_id")

	var tasks map[string][]map[string]interface{}
	require.Equal(t, 200, s.do(t, "GET", "/api/tasks", session.Token, "", &tasks))
	require.NotEmpty(t, tasks["tasks"])
	task := tasks["tasks"][0]
	require.Contains(t, task, "_id")
	require.NotContains(t, task, "id")
	require.Contains(t, task["project"], "_id")
	require.Contains(t, task["assignedTo"], "_id")
}
