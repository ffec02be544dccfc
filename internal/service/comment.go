package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vidtube/internal/model"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
	publisher   queue.Publisher
	now         func() time.Time
}

// NewCommentService wires the service to a store. publisher may be nil when
// activity events are disabled.
func NewCommentService(store *repository.Store, publisher queue.Publisher) *CommentService {
	return &CommentService{
		commentRepo: store.Comments,
		videoRepo:   store.Videos,
		userRepo:    store.Users,
		tx:          store.Tx,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// ListComments returns one page of top-level comments of a video, each with its
// owner and every reply oldest first. An empty page is not an error.
func (s *CommentService) ListComments(ctx context.Context, videoID string, page model.PageRequest, sort model.CommentSort) (*model.Page[model.TopLevelCommentView], error) {
	if err := model.ValidateID(videoID); err != nil {
		return nil, err
	}

	views, total, err := s.commentRepo.ListTopLevel(ctx, model.CommentListQuery{
		VideoID: videoID,
		Sort:    sort,
		Offset:  page.Offset(),
		Limit:   page.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := model.NewPage(views, total, page)
	return &result, nil
}

// PostComment adds a top-level comment to a video.
func (s *CommentService) PostComment(ctx context.Context, videoID, authorID, content string) (*model.TopLevelCommentView, error) {
	if err := validateIDs(videoID, authorID); err != nil {
		return nil, err
	}
	content, err := model.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	comment := &model.Comment{
		ID:        model.NewID(),
		VideoID:   videoID,
		OwnerID:   authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Infof("[CommentService] User %s commented on video %s", authorID, videoID)
	s.publish(ctx, queue.NewCommentCreatedEvent(comment.ID, videoID, authorID, nil))

	return &model.TopLevelCommentView{
		ID:         comment.ID,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
		ReplyCount: 0,
		Owner:      owner,
		Replies:    []model.ReplyView{},
	}, nil
}

// PostReply attaches a reply to a top-level comment of the same video.
// Replies to replies are rejected so the stored tree stays two levels deep.
func (s *CommentService) PostReply(ctx context.Context, videoID, parentID, authorID, content string) (*model.ReplyView, error) {
	if err := validateIDs(videoID, parentID, authorID); err != nil {
		return nil, err
	}
	content, err := model.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if errors.Is(err, model.ErrCommentNotFound) {
		return nil, model.ErrParentCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	if parent.VideoID != videoID {
		return nil, model.ErrParentVideoMismatch
	}
	if !parent.IsTopLevel() {
		return nil, model.ErrReplyDepthExceeded
	}

	owner, err := s.owner(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reply := &model.Comment{
		ID:              model.NewID(),
		VideoID:         videoID,
		OwnerID:         authorID,
		ParentCommentID: &parent.ID,
		Content:         content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	log.Infof("[CommentService] User %s replied to comment %s", authorID, parentID)
	s.publish(ctx, queue.NewCommentCreatedEvent(reply.ID, videoID, authorID, reply.ParentCommentID))

	return &model.ReplyView{
		ID:              reply.ID,
		ParentCommentID: parent.ID,
		Content:         reply.Content,
		CreatedAt:       reply.CreatedAt,
		UpdatedAt:       reply.UpdatedAt,
		Owner:           owner,
	}, nil
}

// EditComment replaces the content of a comment. Only its owner may edit it.
func (s *CommentService) EditComment(ctx context.Context, commentID, callerID, content string) (*model.CommentView, error) {
	if err := validateIDs(commentID, callerID); err != nil {
		return nil, err
	}
	content, err := model.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != callerID {
		return nil, model.ErrNotCommentOwner
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, content, s.now())
	if err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, updated.OwnerID)
	if err != nil {
		return nil, err
	}

	log.Infof("[CommentService] User %s edited comment %s", callerID, commentID)

	return &model.CommentView{
		ID:              updated.ID,
		VideoID:         updated.VideoID,
		ParentCommentID: updated.ParentCommentID,
		Content:         updated.Content,
		CreatedAt:       updated.CreatedAt,
		UpdatedAt:       updated.UpdatedAt,
		Owner:           owner,
	}, nil
}

// DeleteComment removes a comment and every comment below it. The caller must own
// the comment or the video it belongs to.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, callerID string) (*model.CommentSnapshot, error) {
	if err := validateIDs(commentID, callerID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeDelete(ctx, comment, callerID); err != nil {
		return nil, err
	}

	var ids []string
	var deleted int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if ids, err = s.collectSubtree(ctx, comment.ID); err != nil {
			return err
		}
		deleted, err = s.commentRepo.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cascade delete comment %s: %w", commentID, err)
	}

	log.Infof("[CommentService] User %s deleted comment %s (%d removed)", callerID, commentID, deleted)
	s.publish(ctx, queue.NewCommentDeletedEvent(comment.ID, comment.VideoID, callerID))

	return &model.CommentSnapshot{
		Comment:      *comment,
		DeletedIDs:   ids,
		DeletedCount: deleted,
	}, nil
}

func (s *CommentService) authorizeDelete(ctx context.Context, comment *model.Comment, callerID string) error {
	if comment.OwnerID == callerID {
		return nil
	}
	video, err := s.videoRepo.GetByID(ctx, comment.VideoID)
	if errors.Is(err, model.ErrVideoNotFound) {
		return model.ErrNotCommentOwner
	}
	if err != nil {
		return err
	}
	if video.OwnerID != callerID {
		return model.ErrNotCommentOwner
	}
	return nil
}

// collectSubtree walks the reply graph breadth first, one store query per level,
// and returns rootID followed by every descendant. The visited set stops on
// cyclic parent links.
func (s *CommentService) collectSubtree(ctx context.Context, rootID string) ([]string, error) {
	ids := []string{rootID}
	visited := map[string]bool{rootID: true}

	for frontier := []string{rootID}; len(frontier) > 0; {
		children, err := s.commentRepo.ChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, id := range children {
			if visited[id] {
				continue
			}
			visited[id] = true
			ids = append(ids, id)
			next = append(next, id)
		}
		frontier = next
	}
	return ids, nil
}

// SweepReplies deletes descendants that survived the cascade of an already deleted
// comment. It does nothing while the comment itself still exists.
func (s *CommentService) SweepReplies(ctx context.Context, commentID string) (int64, error) {
	_, err := s.commentRepo.GetByID(ctx, commentID)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, model.ErrCommentNotFound) {
		return 0, err
	}

	ids, err := s.collectSubtree(ctx, commentID)
	if err != nil {
		return 0, err
	}
	orphans := ids[1:]
	if len(orphans) == 0 {
		return 0, nil
	}

	n, err := s.commentRepo.DeleteByIDs(ctx, orphans)
	if err != nil {
		return 0, err
	}
	log.Warnf("[CommentService] Swept %d orphaned replies of comment %s", n, commentID)
	return n, nil
}

// PurgeVideoComments deletes every comment of a removed video.
func (s *CommentService) PurgeVideoComments(ctx context.Context, videoID string) (int64, error) {
	n, err := s.commentRepo.DeleteByVideo(ctx, videoID)
	if err != nil {
		return 0, err
	}
	log.Infof("[CommentService] Purged %d comments of video %s", n, videoID)
	return n, nil
}

func (s *CommentService) owner(ctx context.Context, userID string) (model.Owner, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return model.Owner{}, err
	}
	return u.Owner(), nil
}

// publish is best-effort: the write already happened.
func (s *CommentService) publish(ctx context.Context, event queue.ActivityEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
		log.Warnf("[CommentService] Failed to publish %s event: %v", event.Type, err)
	}
}

// validateViewer accepts an anonymous viewer or a canonical id.
func validateViewer(viewerID *string) error {
	if viewerID == nil {
		return nil
	}
	return model.ValidateID(*viewerID)
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := model.ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}
