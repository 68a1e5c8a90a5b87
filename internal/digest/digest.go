package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
	"github.com/delir1um/Bizzin-sub001/internal/db"
)

// Service composes and sends each user's daily journal digest.
type Service struct {
	DB     *db.Store
	Mailer *Mailer
}

type userDigest struct {
	userID      string
	email       string
	displayName string
	entries     []digestEntry
}

type digestEntry struct {
	title    string
	mood     string
	category string
	insight  string
}

func NewService(database *db.Store, mailer *Mailer) *Service {
	return &Service{DB: database, Mailer: mailer}
}

// Run builds digests for every user with entries dated day and returns how
// many were composed. Send failures are logged per user and do not stop the
// run; the digest row still records what was composed.
func (s *Service) Run(ctx context.Context, tenantID int64, day time.Time) (int, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	users, err := s.collect(ctx, tenantID, day, next)
	if err != nil {
		return 0, err
	}

	composed := 0
	for _, user := range users {
		subject, body := compose(user, day)
		var sentAt *time.Time
		if s.Mailer.Enabled() {
			if err := s.Mailer.Send(ctx, user.email, subject, body); err != nil {
				slog.Warn("digest send failed", "user_id", user.userID, "error", err)
			} else {
				now := time.Now().UTC()
				sentAt = &now
			}
		}
		if err := s.store(ctx, tenantID, user, day, subject, body, sentAt); err != nil {
			slog.Warn("digest store failed", "user_id", user.userID, "error", err)
			continue
		}
		composed++
	}
	return composed, nil
}

func (s *Service) collect(ctx context.Context, tenantID int64, from, to time.Time) ([]userDigest, error) {
	byUser := map[string]*userDigest{}
	var order []string
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT e.user_id, u.email, COALESCE(u.display_name, ''), e.title, COALESCE(e.analysis_json, '')
			FROM journal_entries e
			JOIN user_profiles u ON u.id = e.user_id AND u.tenant_id = e.tenant_id
			WHERE e.tenant_id=$1 AND e.entry_date >= $2 AND e.entry_date < $3
			ORDER BY e.user_id, e.created_at ASC`, tenantID, from, to)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var userID, email, displayName, title, analysisJSON string
			if err := rows.Scan(&userID, &email, &displayName, &title, &analysisJSON); err != nil {
				return err
			}
			user, ok := byUser[userID]
			if !ok {
				user = &userDigest{userID: userID, email: email, displayName: displayName}
				byUser[userID] = user
				order = append(order, userID)
			}
			user.entries = append(user.entries, digestEntryFrom(title, analysisJSON))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	digests := make([]userDigest, 0, len(order))
	for _, userID := range order {
		digests = append(digests, *byUser[userID])
	}
	return digests, nil
}

func digestEntryFrom(title, analysisJSON string) digestEntry {
	entry := digestEntry{title: title}
	if analysisJSON == "" {
		return entry
	}
	var result contract.Result
	if err := json.Unmarshal([]byte(analysisJSON), &result); err != nil {
		return entry
	}
	entry.mood = result.PrimaryMood
	entry.category = result.BusinessCategory
	if len(result.Insights) > 0 {
		entry.insight = result.Insights[0]
	}
	return entry
}

func compose(user userDigest, day time.Time) (string, string) {
	subject := fmt.Sprintf("Your journal digest for %s", day.Format("Jan 2"))

	name := user.displayName
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You wrote %d %s on %s.\n\n", len(user.entries), pluralize("entry", "entries", len(user.entries)), day.Format("January 2, 2006"))
	for _, entry := range user.entries {
		line := "- " + entry.title
		if entry.mood != "" {
			line += fmt.Sprintf(" (%s, %s)", entry.mood, entry.category)
		}
		b.WriteString(line + "\n")
		if entry.insight != "" {
			b.WriteString("  " + entry.insight + "\n")
		}
	}
	b.WriteString("\nKeep writing.\n")
	return subject, b.String()
}

func pluralize(one, many string, count int) string {
	if count == 1 {
		return one
	}
	return many
}

func (s *Service) store(ctx context.Context, tenantID int64, user userDigest, day time.Time, subject, body string, sentAt *time.Time) error {
	return s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO daily_digests (id, tenant_id, user_id, digest_date, subject, body_text, entry_count, sent_at, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			uuid.NewString(), tenantID, user.userID, day, subject, body, len(user.entries), sentAt, time.Now().UTC())
		return err
	})
}
