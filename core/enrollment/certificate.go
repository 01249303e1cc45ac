package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/irsalhamdi/course-catalog/database"
	"github.com/irsalhamdi/course-catalog/random"
	"github.com/irsalhamdi/course-catalog/validate"
	"github.com/jmoiron/sqlx"
)

const certificateAttempts = 5

// Issue gives a completed enrollment its certificate and returns the stored
// one. A clash on the certificate number draws a new number.
func Issue(ctx context.Context, db sqlx.ExtContext, e Enrollment, baseURL string, now time.Time) (Certificate, error) {
	for attempt := 1; ; attempt++ {
		number, err := random.CertificateNumber()
		if err != nil {
			return Certificate{}, err
		}

		c := Certificate{
			ID:           validate.GenerateID(),
			EnrollmentID: e.ID,
			Number:       number,
			IssuedAt:     now,
			URL:          CertificateURL(baseURL, number),
		}

		err = CreateCertificate(ctx, db, c)
		if err == nil {
			break
		}
		if !errors.Is(err, database.ErrDBDuplicatedEntry) || attempt >= certificateAttempts {
			return Certificate{}, err
		}
	}

	return FetchCertificate(ctx, db, e.ID)
}
