package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/services"
	"socialnet/app/uploads"
)

type userResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user,omitempty"`
}

// UserController handles HTTP requests for users
type UserController struct {
	userService *services.UserService
	uploader    *uploads.Uploader
	log         *logger.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, uploader *uploads.Uploader, log *logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		uploader:    uploader,
		log:         log,
	}
}

// Create handles signup with an optional profile image
func (uc *UserController) Create(w http.ResponseWriter, r *http.Request) {
	profile, err := uc.uploader.Save(w, r, "profile", models.RoleUserImages)
	if err != nil {
		sendError(w, r, uc.log, err, "user", "creating")
		return
	}

	user, err := uc.userService.CreateUser(r.Context(), services.CreateUserInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Bio:      r.FormValue("bio"),
	}, profile)
	if err != nil {
		uc.discard(r, profile)
		sendError(w, r, uc.log, err, "user", "creating")
		return
	}

	sendJSON(w, http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

// Show handles fetching a single user
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := uc.userService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, uc.log, err, "user", "reading")
		return
	}

	sendJSON(w, http.StatusOK, userResponse{Message: "User retrieved successfully", User: user})
}

// Update handles profile edits with an optional new profile image
func (uc *UserController) Update(w http.ResponseWriter, r *http.Request) {
	profile, err := uc.uploader.Save(w, r, "profile", models.RoleUserImages)
	if err != nil {
		sendError(w, r, uc.log, err, "user", "updating")
		return
	}

	user, err := uc.userService.UpdateUser(r.Context(), mux.Vars(r)["id"], services.UpdateUserInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Bio:      r.FormValue("bio"),
	}, profile)
	if err != nil {
		uc.discard(r, profile)
		sendError(w, r, uc.log, err, "user", "updating")
		return
	}

	sendJSON(w, http.StatusOK, userResponse{Message: "User updated successfully", User: user})
}

// Delete handles removing a user
func (uc *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := uc.userService.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		sendError(w, r, uc.log, err, "user", "deleting")
		return
	}

	sendJSON(w, http.StatusOK, userResponse{Message: "User deleted successfully"})
}

// Login handles credential checks
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "email", "password")
	if err != nil {
		sendError(w, r, uc.log, err, "login", "during")
		return
	}

	user, err := uc.userService.Login(r.Context(), fields["email"], fields["password"])
	if err != nil {
		sendError(w, r, uc.log, err, "login", "during")
		return
	}

	sendJSON(w, http.StatusOK, userResponse{Message: "User login is successful", User: user})
}

// ChangePassword handles password changes after verifying the old password
func (uc *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "oldpassword", "newpassword")
	if err != nil {
		sendError(w, r, uc.log, err, "user", "updating")
		return
	}

	err = uc.userService.ChangePassword(r.Context(), mux.Vars(r)["id"], fields["oldpassword"], fields["newpassword"])
	if err != nil {
		sendError(w, r, uc.log, err, "user", "updating")
		return
	}

	sendJSON(w, http.StatusOK, userResponse{Message: "Password updated successfully"})
}

func (uc *UserController) discard(r *http.Request, profile string) {
	if err := uc.uploader.Discard(r.Context(), models.RoleUserImages, profile); err != nil {
		uc.log.Warnw("failed to discard upload", "filename", profile, "error", err)
	}
}
