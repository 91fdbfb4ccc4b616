package feed

import (
	"context"
	"strings"

	"AgroFeed/internal/core/identity"
)

// Optimistic mutation layer. Like toggles patch local state before the
// upstream call and roll back on rejection; comments are append-on-confirm
// only. All merges into the shared post collection are targeted by-id
// patches, so an interleaved page load cannot corrupt them.

// ToggleLike flips the viewer's like state on a post. The local patch is
// applied immediately; if the upstream rejects the call both fields revert
// and an error notice is recorded. Rapid repeated toggles are last-write-wins
// and intentionally not debounced.
func (w *Window) ToggleLike(ctx context.Context, postID identity.Identity) error {
	w.mu.Lock()
	i := w.findLocked(postID)
	if i < 0 {
		w.mu.Unlock()
		return ErrPostNotFound
	}
	wasLiked := w.posts[i].LikedByViewer
	wasCount := w.posts[i].LikeCount

	desired := !wasLiked
	w.posts[i].LikedByViewer = desired
	if desired {
		w.posts[i].LikeCount = wasCount + 1
	} else {
		w.posts[i].LikeCount = wasCount - 1
	}
	w.mu.Unlock()

	if err := w.upstream.SetLike(ctx, string(postID), desired); err != nil {
		w.logger.Warn("like toggle rejected", "postId", postID, "error", err)
		w.mu.Lock()
		if j := w.findLocked(postID); j >= 0 {
			w.posts[j].LikedByViewer = wasLiked
			w.posts[j].LikeCount = wasCount
		}
		w.notify(NoticeError, msgLikeFailed)
		w.mu.Unlock()
		return err
	}
	return nil
}

// AddComment submits a comment and appends the server-confirmed result.
// Blank or whitespace-only text is a silent no-op with no network call.
// There is no optimistic insert: local state changes only after the upstream
// returns the authoritative comment.
func (w *Window) AddComment(ctx context.Context, postID identity.Identity, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	w.mu.Lock()
	i := w.findLocked(postID)
	if i < 0 {
		w.mu.Unlock()
		return ErrPostNotFound
	}
	index := len(w.posts[i].Comments)
	w.mu.Unlock()

	rawComment, err := w.upstream.SubmitComment(ctx, string(postID), text)
	if err != nil {
		w.logger.Warn("comment submit rejected", "postId", postID, "error", err)
		w.mu.Lock()
		w.notify(NoticeError, msgCommentFailed)
		w.mu.Unlock()
		return err
	}

	view := w.adapter.AdaptComment(rawComment, index)

	w.mu.Lock()
	defer w.mu.Unlock()
	if j := w.findLocked(postID); j >= 0 {
		w.posts[j].Comments = append(w.posts[j].Comments, view)
	}
	return nil
}

// DeleteComment removes a comment after upstream confirmation. Authorization
// is the server's call; the client-side ownership check is advisory only.
func (w *Window) DeleteComment(ctx context.Context, postID, commentID identity.Identity) error {
	if err := w.upstream.DeleteComment(ctx, string(postID), string(commentID)); err != nil {
		w.logger.Warn("comment delete rejected", "postId", postID, "commentId", commentID, "error", err)
		w.mu.Lock()
		w.notify(NoticeError, msgDeleteFailed)
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.findLocked(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	comments := w.posts[i].Comments
	for j := range comments {
		if identity.Same(comments[j].ID, commentID) {
			w.posts[i].Comments = append(comments[:j:j], comments[j+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

// DeletePost removes a post after upstream confirmation. Deleting the active
// (modal-open) post also closes that view.
func (w *Window) DeletePost(ctx context.Context, postID identity.Identity) error {
	if err := w.upstream.DeletePost(ctx, string(postID)); err != nil {
		w.logger.Warn("post delete rejected", "postId", postID, "error", err)
		w.mu.Lock()
		w.notify(NoticeError, msgDeleteFailed)
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.findLocked(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	w.posts = append(w.posts[:i:i], w.posts[i+1:]...)
	if identity.Same(w.activeID, postID) {
		w.activeID = identity.None
	}
	w.notify(NoticeSuccess, msgPostDeleted)
	return nil
}
