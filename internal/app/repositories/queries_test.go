package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bread", `%bread%`},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
		{"", `%%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.in), tt.in)
	}
}

func TestEventJoinQuery(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sql, args, err := NewEventRepository(nil).joinQuery("ev-1", "user-1", now).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE events SET participant_ids = array_append(participant_ids, $1::text), updated_at = $2 "+
		"WHERE id = $3 AND NOT ($4::text = ANY(participant_ids)) "+
		"AND (max_participants = 0 OR cardinality(participant_ids) < max_participants)", sql)
	assert.Equal(t, []interface{}{"user-1", now, "ev-1", "user-1"}, args)
}

func TestEmailEqualsIgnoresCase(t *testing.T) {
	sql, args, err := NewUserRepository(nil).sb.Select("id").From("users").Where(emailEquals(" Ann@Example.COM ")).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM users WHERE LOWER(email) = $1", sql)
	assert.Equal(t, []interface{}{"ann@example.com"}, args)
}

func TestPostFilterEscapesSearch(t *testing.T) {
	repo := NewPostRepository(nil)
	filter := models.PostFilter{UserID: "u1", Location: "5th_ave", Search: "50%"}

	sql, args, err := applyPostFilter(repo.sb.Select("id").From("posts"), filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "user_id = $1")
	assert.Contains(t, sql, "location ILIKE $2")
	assert.Contains(t, sql, "(title ILIKE $3 OR description ILIKE $4)")
	assert.Equal(t, []interface{}{"u1", `%5th\_ave%`, `%50\%%`, `%50\%%`}, args)

	sql, args, err = applyPostFilter(repo.sb.Select("id").From("posts"), models.PostFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM posts", sql)
	assert.Empty(t, args)
}

func TestChatReadStateQueries(t *testing.T) {
	repo := NewChatRepository(nil)

	sql, args, err := repo.listRoomsQuery("u1").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "m.sender_id <> $1::text AND NOT ($2::text = ANY(m.read_by))")
	assert.Contains(t, sql, "WHERE $3::text = ANY(participant_ids)")
	assert.Equal(t, []interface{}{"u1", "u1", "u1"}, args)

	sql, args, err = repo.markReadQuery("room-1", "u1").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE chat_messages SET read_by = array_append(read_by, $1::text), is_read = NOT EXISTS")
	assert.Contains(t, sql, "p.id NOT IN (chat_messages.sender_id, $2::text)")
	assert.Contains(t, sql, "WHERE room_id = $3 AND sender_id <> $4 AND NOT ($5::text = ANY(read_by))")
	assert.Equal(t, []interface{}{"u1", "u1", "room-1", "u1", "u1"}, args)
}
