package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialnet/app/controllers"
	"socialnet/app/logger"
	"socialnet/app/middleware"
	"socialnet/app/repositories"
	"socialnet/app/services"
	"socialnet/app/storage"
	"socialnet/app/uploads"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store          *repositories.Store
	Images         storage.ImageStore
	Log            *logger.Logger
	MaxUploadBytes int64
	// StaticDir, when set, is served at the root as the browser front-end.
	StaticDir   string
	CORSOrigins []string
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(deps.Log))
	router.Use(middleware.Recoverer(deps.Log))

	uploader := uploads.NewUploader(deps.Images, deps.MaxUploadBytes)
	userService := services.NewUserService(deps.Store.Users, deps.Images, deps.Log)
	postService := services.NewPostService(deps.Store.Posts, deps.Store.Users, deps.Images, deps.Log)

	userController := controllers.NewUserController(userService, uploader, deps.Log)
	postController := controllers.NewPostController(postService, uploader, deps.Log)
	imageController := controllers.NewImageController(deps.Images, deps.Log)

	// User endpoints
	router.HandleFunc("/createUser", userController.Create).Methods(http.MethodPost)
	router.HandleFunc("/getUser/{id}", userController.Show).Methods(http.MethodGet)
	router.HandleFunc("/updateUser/{id}", userController.Update).Methods(http.MethodPut)
	router.HandleFunc("/deleteUser/{id}", userController.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/login", userController.Login).Methods(http.MethodPost)
	router.HandleFunc("/changePassword/{id}", userController.ChangePassword).Methods(http.MethodPut)

	// Post endpoints
	router.HandleFunc("/createPost/{user_id}", postController.Create).Methods(http.MethodPost)
	router.HandleFunc("/getAllPosts", postController.Index).Methods(http.MethodGet)
	router.HandleFunc("/getPosts/{user_id}", postController.ByUser).Methods(http.MethodGet)
	router.HandleFunc("/updatePost/{id}", postController.Update).Methods(http.MethodPut)
	router.HandleFunc("/deletePost/{id}", postController.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/addComment/{id}", postController.AddComment).Methods(http.MethodPost)
	router.HandleFunc("/likePost/{id}", postController.Like).Methods(http.MethodPut)

	// Uploaded images
	router.HandleFunc("/uploads/{role}/{filename}", imageController.Show).Methods(http.MethodGet)

	// Front-end, registered last so it only catches what nothing else matched
	if deps.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir))).Methods(http.MethodGet)
	}

	return router
}

// Handler returns the router wrapped for cross-origin browser access.
func Handler(deps Deps) http.Handler {
	return middleware.CORS(deps.CORSOrigins)(SetupRoutes(deps))
}
