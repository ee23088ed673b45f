package memory

import "github.com/yigit/helphub/internal/app/repositories"

var (
	_ repositories.IUserRepository      = (*UserRepository)(nil)
	_ repositories.IPostRepository      = (*PostRepository)(nil)
	_ repositories.ICommentRepository   = (*CommentRepository)(nil)
	_ repositories.IEventRepository     = (*EventRepository)(nil)
	_ repositories.IEmergencyRepository = (*EmergencyRepository)(nil)
	_ repositories.IChatRepository      = (*ChatRepository)(nil)
)
