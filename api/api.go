package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-catalog/api/middleware"
	"github.com/irsalhamdi/course-catalog/api/web"
	"github.com/irsalhamdi/course-catalog/core/auth"
	"github.com/irsalhamdi/course-catalog/core/category"
	"github.com/irsalhamdi/course-catalog/core/course"
	"github.com/irsalhamdi/course-catalog/core/enrollment"
	"github.com/irsalhamdi/course-catalog/core/instructor"
	"github.com/irsalhamdi/course-catalog/core/qa"
	"github.com/irsalhamdi/course-catalog/core/review"
	"github.com/irsalhamdi/course-catalog/core/section"
	"github.com/irsalhamdi/course-catalog/core/user"
	"github.com/irsalhamdi/course-catalog/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin         string
	Log                logrus.FieldLogger
	DB                 *sqlx.DB
	Session            *scs.SessionManager
	Limiter            *rate.Limiter
	SlugAttempts       int
	CertificateBaseURL string
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, auth.Identify(cfg.Session))
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate()
	admin := auth.Admin()

	courses := course.NewService(course.NewStore(cfg.DB), cfg.Log, cfg.SlugAttempts)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session), authen)

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)

	a.Handle(http.MethodGet, "/categories", category.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/categories/{id}", category.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/categories", category.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/categories/{id}", category.HandleUpdate(cfg.DB), admin)

	a.Handle(http.MethodPost, "/instructors", instructor.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodGet, "/instructors/{id}", instructor.HandleShow(cfg.DB))
	a.Handle(http.MethodPut, "/instructors/{id}/verify", instructor.HandleVerify(cfg.DB), admin)

	a.Handle(http.MethodGet, "/courses", course.HandleList(courses))
	a.Handle(http.MethodPost, "/courses", course.HandleCreate(courses), authen)
	a.Handle(http.MethodGet, "/courses/{id}", course.HandleShow(courses))
	a.Handle(http.MethodPut, "/courses/{id}", course.HandleUpdate(courses), authen)
	a.Handle(http.MethodPatch, "/courses/{id}", course.HandleUpdate(courses), authen)
	a.Handle(http.MethodDelete, "/courses/{id}", course.HandleDelete(courses), authen)
	a.Handle(http.MethodPut, "/courses/{id}/status", course.HandleTransition(courses), authen)

	a.Handle(http.MethodPost, "/courses/{id}/sections", section.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodPost, "/sections/{id}/lessons", section.HandleCreateLesson(cfg.DB), authen)
	a.Handle(http.MethodGet, "/lessons/{id}/preview", section.HandleShowPreview(cfg.DB))
	a.Handle(http.MethodGet, "/lessons/{id}", section.HandleShow(cfg.DB), authen)

	a.Handle(http.MethodPost, "/courses/{id}/enrollments", enrollment.HandleEnroll(cfg.DB), authen)
	a.Handle(http.MethodGet, "/enrollments", enrollment.HandleList(cfg.DB), authen)
	a.Handle(http.MethodPut, "/lessons/{id}/progress", enrollment.HandleProgress(cfg.DB, cfg.Log, cfg.CertificateBaseURL), authen)
	a.Handle(http.MethodGet, "/enrollments/{id}/certificate", enrollment.HandleCertificate(cfg.DB), authen)

	a.Handle(http.MethodGet, "/courses/{id}/reviews", review.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/courses/{id}/reviews", review.HandleCreate(cfg.DB, cfg.Log), authen)

	a.Handle(http.MethodGet, "/lessons/{id}/questions", qa.HandleListQuestions(cfg.DB), authen)
	a.Handle(http.MethodPost, "/lessons/{id}/questions", qa.HandleAsk(cfg.DB), authen)
	a.Handle(http.MethodPost, "/questions/{id}/answers", qa.HandleAnswer(cfg.DB), authen)

	return cfg.Session.LoadAndSave(a.Router)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
