// Package services holds the business logic of the API. Services receive the
// caller's user id explicitly and return DTOs or models; HTTP concerns stay in
// the controllers.
//
// Services defined in this package:
//   - AuthService: registration, login and the caller's profile
//   - UserService: public user lookup and profile updates with avatar upload
//   - PostService: help request CRUD with owner checks
//   - CommentService: comments on posts and owner review
//   - EventService: community events with a participant cap
//   - EmergencyService: emergency alerts and the responder log
//   - AchievementService: static catalog and per-user progress
//   - ChatService: chat rooms, messages and read state
package services
