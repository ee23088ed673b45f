package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/helphub/internal/db"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// pgRepository carries what every PostgreSQL repository needs
type pgRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func newPgRepository(database *db.PostgresDB) pgRepository {
	return pgRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// NewPostgresRepositories wires every repository to one connection pool
func NewPostgresRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Posts:     NewPostRepository(database),
		Comments:  NewCommentRepository(database),
		Events:    NewEventRepository(database),
		Emergency: NewEmergencyRepository(database),
		Chat:      NewChatRepository(database),
	}
}

// likePattern escapes LIKE wildcards in user input and wraps it for substring matching
func likePattern(s string) string {
	r := []rune{}
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return "%" + string(r) + "%"
}

var (
	_ IUserRepository      = (*UserRepository)(nil)
	_ IPostRepository      = (*PostRepository)(nil)
	_ ICommentRepository   = (*CommentRepository)(nil)
	_ IEventRepository     = (*EventRepository)(nil)
	_ IEmergencyRepository = (*EmergencyRepository)(nil)
	_ IChatRepository      = (*ChatRepository)(nil)
)
