package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/services"
	"socialnet/app/uploads"
)

type postResponse struct {
	Message string       `json:"message"`
	Post    *models.Post `json:"post,omitempty"`
}

type postsResponse struct {
	Message string         `json:"message"`
	Posts   []*models.Post `json:"posts"`
}

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
	uploader    *uploads.Uploader
	log         *logger.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, uploader *uploads.Uploader, log *logger.Logger) *PostController {
	return &PostController{
		postService: postService,
		uploader:    uploader,
		log:         log,
	}
}

// Create handles creating a post with an optional image
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	image, err := pc.uploader.Save(w, r, "image", models.RolePostImages)
	if err != nil {
		sendError(w, r, pc.log, err, "post", "creating")
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), mux.Vars(r)["user_id"], postInput(r), image)
	if err != nil {
		pc.discard(r, image)
		sendError(w, r, pc.log, err, "post", "creating")
		return
	}

	sendJSON(w, http.StatusCreated, postResponse{Message: "Post created successfully", Post: post})
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.GetAllPosts(r.Context())
	if err != nil {
		sendError(w, r, pc.log, err, "post", "fetching")
		return
	}

	sendJSON(w, http.StatusOK, postsResponse{Message: "Posts retrieved successfully", Posts: posts})
}

// ByUser handles listing the posts of one user
func (pc *PostController) ByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.GetPostsByUser(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		sendError(w, r, pc.log, err, "post", "fetching")
		return
	}

	sendJSON(w, http.StatusOK, postsResponse{Message: "Posts retrieved successfully", Posts: posts})
}

// Update handles editing a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	image, err := pc.uploader.Save(w, r, "image", models.RolePostImages)
	if err != nil {
		sendError(w, r, pc.log, err, "post", "updating")
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), mux.Vars(r)["id"], postInput(r), image)
	if err != nil {
		pc.discard(r, image)
		sendError(w, r, pc.log, err, "post", "updating")
		return
	}

	sendJSON(w, http.StatusOK, postResponse{Message: "Post updated successfully", Post: post})
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.DeletePost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, pc.log, err, "post", "deleting")
		return
	}

	sendJSON(w, http.StatusOK, postResponse{Message: "Post deleted successfully", Post: post})
}

// AddComment handles appending a comment
func (pc *PostController) AddComment(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "comment")
	if err != nil {
		sendError(w, r, pc.log, err, "comment", "adding")
		return
	}

	post, err := pc.postService.AddComment(r.Context(), mux.Vars(r)["id"], fields["comment"])
	if err != nil {
		sendError(w, r, pc.log, err, "post", "commenting on")
		return
	}

	sendJSON(w, http.StatusOK, postResponse{Message: "Comment added successfully", Post: post})
}

// Like handles incrementing the like counter
func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.LikePost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, pc.log, err, "post", "liking")
		return
	}

	sendJSON(w, http.StatusOK, postResponse{Message: "Post liked successfully", Post: post})
}

func postInput(r *http.Request) services.PostInput {
	return services.PostInput{
		Title:  r.FormValue("title"),
		Body:   r.FormValue("body"),
		Status: r.FormValue("status"),
	}
}

func (pc *PostController) discard(r *http.Request, image string) {
	if err := pc.uploader.Discard(r.Context(), models.RolePostImages, image); err != nil {
		pc.log.Warnw("failed to discard upload", "filename", image, "error", err)
	}
}
