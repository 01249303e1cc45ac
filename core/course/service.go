package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-catalog/core/category"
	"github.com/irsalhamdi/course-catalog/core/claims"
	"github.com/irsalhamdi/course-catalog/core/instructor"
	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/slug"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned for unknown courses and for archived ones,
	// which callers cannot tell apart.
	ErrNotFound  = errors.New("course not found")
	ErrForbidden = errors.New("only the owning instructor or an administrator may change this course")
)

// Storer is the persistence the lifecycle service needs.
type Storer interface {
	Create(ctx context.Context, c Course) error
	Update(ctx context.Context, c Course) error
	Delete(ctx context.Context, id string) error
	Fetch(ctx context.Context, id string) (Course, error)
	List(ctx context.Context) ([]Row, error)
	Stats(ctx context.Context, id string) (Stats, error)
	SlugExists(ctx context.Context, slug string, excludeID string) (bool, error)
	Sections(ctx context.Context, courseID string) ([]SectionView, error)
	Reviews(ctx context.Context, courseID string) ([]ReviewView, error)
	CountStudents(ctx context.Context, courseID string) (int, error)
	IsEnrolled(ctx context.Context, courseID string, userID string) (bool, error)
	Instructor(ctx context.Context, id string) (instructor.Instructor, error)
	Category(ctx context.Context, id string) (category.Category, error)
}

// Service runs the course lifecycle: create, list, retrieve, update, delete
// and status transitions. Every operation takes the caller explicitly.
type Service struct {
	store        Storer
	log          logrus.FieldLogger
	slugAttempts int
	now          func() time.Time
}

func NewService(store Storer, log logrus.FieldLogger, slugAttempts int) *Service {
	if slugAttempts <= 0 {
		slugAttempts = slug.DefaultMaxAttempts
	}
	return &Service{
		store:        store,
		log:          log,
		slugAttempts: slugAttempts,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, clm claims.Claims, nc CourseNew) (ListView, error) {
	fe := validate.Collect(nc)

	ins, insOK, err := s.checkInstructor(ctx, fe, nc.InstructorID)
	if err != nil {
		return ListView{}, err
	}
	cat, _, err := s.checkCategory(ctx, fe, nc.CategoryID)
	if err != nil {
		return ListView{}, err
	}
	if insOK && !clm.Admin() && ins.UserID != clm.UserID {
		return ListView{}, fmt.Errorf("creating a course for instructor[%s]: %w", ins.ID, ErrForbidden)
	}
	if nc.IsFeatured && !clm.Admin() {
		fe.Add("is_featured", "only administrators can feature a course")
	}
	if err := fe.Err(); err != nil {
		return ListView{}, err
	}

	now := s.now()
	c := Course{
		ID:                 validate.GenerateID(),
		Title:              nc.Title,
		Description:        nc.Description,
		InstructorID:       nc.InstructorID,
		CategoryID:         nc.CategoryID,
		Thumbnail:          nc.Thumbnail,
		TrailerURL:         nc.TrailerURL,
		Price:              nc.Price,
		DiscountPercentage: nc.DiscountPercentage,
		Level:              nc.Level,
		Status:             StatusDraft,
		DurationHours:      nc.DurationHours,
		Requirements:       nc.Requirements,
		WhatYouLearn:       nc.WhatYouLearn,
		Language:           nc.Language,
		IsFeatured:         nc.IsFeatured,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if c.TrailerURL != nil && *c.TrailerURL == "" {
		c.TrailerURL = nil
	}

	if err := s.saveWithSlug(ctx, &c, "", s.store.Create); err != nil {
		return ListView{}, err
	}

	s.log.WithFields(logrus.Fields{"course_id": c.ID, "slug": c.Slug}).Info("course created")
	return newListView(c, Stats{}, ins, cat), nil
}

func (s *Service) List(ctx context.Context) ([]ListView, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	instructors := make(map[string]instructor.Instructor)
	categories := make(map[string]category.Category)

	views := make([]ListView, 0, len(rows))
	for _, row := range rows {
		ins, ok := instructors[row.InstructorID]
		if !ok {
			if ins, err = s.store.Instructor(ctx, row.InstructorID); err != nil {
				return nil, err
			}
			instructors[row.InstructorID] = ins
		}

		cat, ok := categories[row.CategoryID]
		if !ok {
			if cat, err = s.store.Category(ctx, row.CategoryID); err != nil {
				return nil, err
			}
			categories[row.CategoryID] = cat
		}

		views = append(views, newListView(row.Course, row.Stats, ins, cat))
	}

	return views, nil
}

// Retrieve returns the detail view of a course. Archived courses are
// reported as ErrNotFound. is_enrolled is only ever true for an
// authenticated caller.
func (s *Service) Retrieve(ctx context.Context, clm claims.Claims, id string) (DetailView, error) {
	c, err := s.fetch(ctx, id)
	if err != nil {
		return DetailView{}, err
	}
	if c.Status == StatusArchived {
		return DetailView{}, fmt.Errorf("course[%s] is archived: %w", id, ErrNotFound)
	}

	ins, err := s.store.Instructor(ctx, c.InstructorID)
	if err != nil {
		return DetailView{}, err
	}
	cat, err := s.store.Category(ctx, c.CategoryID)
	if err != nil {
		return DetailView{}, err
	}
	sections, err := s.store.Sections(ctx, c.ID)
	if err != nil {
		return DetailView{}, err
	}
	reviews, err := s.store.Reviews(ctx, c.ID)
	if err != nil {
		return DetailView{}, err
	}
	students, err := s.store.CountStudents(ctx, c.ID)
	if err != nil {
		return DetailView{}, err
	}

	enrolled := false
	if clm.Authenticated() {
		if enrolled, err = s.store.IsEnrolled(ctx, c.ID, clm.UserID); err != nil {
			return DetailView{}, err
		}
	}

	lv := newListView(c, statsOf(sections, reviews, students), ins, cat)
	lv.Instructor = newInstructorView(ins, true)

	return DetailView{
		ListView:   lv,
		TrailerURL: c.TrailerURL,
		Sections:   sections,
		Reviews:    reviews,
		IsEnrolled: enrolled,
	}, nil
}

// Update applies up to the course. With full set the request replaces the
// course and must carry every required field; otherwise only the fields
// present are validated and written.
func (s *Service) Update(ctx context.Context, clm claims.Claims, id string, up CourseUp, full bool) (ListView, error) {
	c, err := s.fetch(ctx, id)
	if err != nil {
		return ListView{}, err
	}
	if err := s.authorize(ctx, clm, c); err != nil {
		return ListView{}, err
	}

	fe := up.Check(c, full)

	ins, cat := instructor.Instructor{}, category.Category{}
	if up.InstructorID != nil && *up.InstructorID != c.InstructorID && !clm.Admin() {
		fe.Add("instructor_id", "only administrators can move a course to another instructor")
	}
	if ins, _, err = s.checkInstructor(ctx, fe, up.Apply(c).InstructorID); err != nil {
		return ListView{}, err
	}
	if cat, _, err = s.checkCategory(ctx, fe, up.Apply(c).CategoryID); err != nil {
		return ListView{}, err
	}
	if up.IsFeatured != nil && *up.IsFeatured != c.IsFeatured && !clm.Admin() {
		fe.Add("is_featured", "only administrators can feature a course")
	}
	if err := fe.Err(); err != nil {
		return ListView{}, err
	}

	titleChanged := up.Title != nil && *up.Title != c.Title

	c = up.Apply(c)
	c.UpdatedAt = s.now()

	if titleChanged {
		err = s.saveWithSlug(ctx, &c, c.ID, s.store.Update)
	} else {
		err = s.store.Update(ctx, c)
	}
	if err != nil {
		return ListView{}, s.notFound(id, err)
	}

	st, err := s.store.Stats(ctx, c.ID)
	if err != nil {
		return ListView{}, err
	}
	return newListView(c, st, ins, cat), nil
}

func (s *Service) Delete(ctx context.Context, clm claims.Claims, id string) error {
	c, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, clm, c); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.notFound(id, err)
	}

	s.log.WithField("course_id", id).Info("course deleted")
	return nil
}

// Transition moves the course to another status following the transition
// table.
func (s *Service) Transition(ctx context.Context, clm claims.Claims, id string, su StatusUp) (ListView, error) {
	if err := validate.Check(su); err != nil {
		return ListView{}, err
	}

	c, err := s.fetch(ctx, id)
	if err != nil {
		return ListView{}, err
	}
	if err := s.authorize(ctx, clm, c); err != nil {
		return ListView{}, err
	}

	if !CanTransition(c.Status, su.Status) {
		fe := validate.FieldErrors{"status": fmt.Sprintf("cannot move a course from %s to %s", c.Status, su.Status)}
		return ListView{}, fe
	}

	c.Status = su.Status
	c.UpdatedAt = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return ListView{}, s.notFound(id, err)
	}

	ins, err := s.store.Instructor(ctx, c.InstructorID)
	if err != nil {
		return ListView{}, err
	}
	cat, err := s.store.Category(ctx, c.CategoryID)
	if err != nil {
		return ListView{}, err
	}
	st, err := s.store.Stats(ctx, c.ID)
	if err != nil {
		return ListView{}, err
	}

	s.log.WithFields(logrus.Fields{"course_id": c.ID, "status": c.Status}).Info("course status changed")
	return newListView(c, st, ins, cat), nil
}

// saveWithSlug derives a free slug from the title and persists c with save.
// A unique violation at write time means another request took the slug in
// between; a new suffix is drawn and the write retried.
func (s *Service) saveWithSlug(ctx context.Context, c *Course, excludeID string, save func(context.Context, Course) error) error {
	base := slug.Make(c.Title)

	sl, err := slug.Unique(ctx, base, s.slugAttempts, func(ctx context.Context, candidate string) (bool, error) {
		return s.store.SlugExists(ctx, candidate, excludeID)
	})
	if err != nil {
		return err
	}
	if base == "" {
		base = sl
	}

	for attempt := 1; ; attempt++ {
		c.Slug = sl

		err := save(ctx, *c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, database.ErrDBDuplicatedEntry) || attempt >= s.slugAttempts {
			return err
		}

		s.log.WithFields(logrus.Fields{"slug": sl, "attempt": attempt}).Info("slug taken concurrently, retrying")
		sl = slug.WithSuffix(base)
	}
}

func (s *Service) fetch(ctx context.Context, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, fmt.Errorf("course[%s]: %w", id, ErrNotFound)
	}

	c, err := s.store.Fetch(ctx, id)
	if err != nil {
		return Course{}, s.notFound(id, err)
	}
	return c, nil
}

func (s *Service) authorize(ctx context.Context, clm claims.Claims, c Course) error {
	if clm.Admin() {
		return nil
	}
	if !clm.Authenticated() {
		return ErrForbidden
	}

	ins, err := s.store.Instructor(ctx, c.InstructorID)
	if err != nil {
		return err
	}
	if ins.UserID != clm.UserID {
		return fmt.Errorf("user[%s] on course[%s]: %w", clm.UserID, c.ID, ErrForbidden)
	}
	return nil
}

// checkInstructor records a field error unless id names a verified
// instructor. The bool reports whether the instructor was found.
func (s *Service) checkInstructor(ctx context.Context, fe validate.FieldErrors, id string) (instructor.Instructor, bool, error) {
	if _, bad := fe["instructor_id"]; bad {
		return instructor.Instructor{}, false, nil
	}

	ins, err := s.store.Instructor(ctx, id)
	switch {
	case errors.Is(err, database.ErrDBNotFound):
		fe.Add("instructor_id", "instructor does not exist")
		return instructor.Instructor{}, false, nil
	case err != nil:
		return instructor.Instructor{}, false, err
	case !ins.IsVerified:
		fe.Add("instructor_id", "instructor is not verified")
	}
	return ins, true, nil
}

// checkCategory records a field error unless id names an active category.
func (s *Service) checkCategory(ctx context.Context, fe validate.FieldErrors, id string) (category.Category, bool, error) {
	if _, bad := fe["category_id"]; bad {
		return category.Category{}, false, nil
	}

	cat, err := s.store.Category(ctx, id)
	switch {
	case errors.Is(err, database.ErrDBNotFound):
		fe.Add("category_id", "category does not exist")
		return category.Category{}, false, nil
	case err != nil:
		return category.Category{}, false, err
	case !cat.IsActive:
		fe.Add("category_id", "category is not active")
	}
	return cat, true, nil
}

func (s *Service) notFound(id string, err error) error {
	if errors.Is(err, database.ErrDBNotFound) {
		return fmt.Errorf("course[%s]: %v: %w", id, err, ErrNotFound)
	}
	return err
}

// NewStore adapts the package store functions to Storer.
func NewStore(db sqlx.ExtContext) Storer {
	return dbStore{db: db}
}

type dbStore struct {
	db sqlx.ExtContext
}

func (d dbStore) Create(ctx context.Context, c Course) error { return Create(ctx, d.db, c) }
func (d dbStore) Update(ctx context.Context, c Course) error { return Update(ctx, d.db, c) }
func (d dbStore) Delete(ctx context.Context, id string) error { return Delete(ctx, d.db, id) }
func (d dbStore) Fetch(ctx context.Context, id string) (Course, error) { return Fetch(ctx, d.db, id) }
func (d dbStore) List(ctx context.Context) ([]Row, error) { return List(ctx, d.db) }
func (d dbStore) Stats(ctx context.Context, id string) (Stats, error) {
	return FetchStats(ctx, d.db, id)
}
func (d dbStore) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	return SlugExists(ctx, d.db, slug, excludeID)
}
func (d dbStore) Sections(ctx context.Context, courseID string) ([]SectionView, error) {
	return FetchSections(ctx, d.db, courseID)
}
func (d dbStore) Reviews(ctx context.Context, courseID string) ([]ReviewView, error) {
	return FetchReviews(ctx, d.db, courseID)
}
func (d dbStore) CountStudents(ctx context.Context, courseID string) (int, error) {
	return CountStudents(ctx, d.db, courseID)
}
func (d dbStore) IsEnrolled(ctx context.Context, courseID string, userID string) (bool, error) {
	return IsEnrolled(ctx, d.db, courseID, userID)
}
func (d dbStore) Instructor(ctx context.Context, id string) (instructor.Instructor, error) {
	return instructor.Fetch(ctx, d.db, id)
}
func (d dbStore) Category(ctx context.Context, id string) (category.Category, error) {
	return category.Fetch(ctx, d.db, id)
}
