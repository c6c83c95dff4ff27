package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pratham-8123/vaultbox/internal/api/services"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/models"
	"github.com/pratham-8123/vaultbox/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// JWT Claims struct
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

const tokenLifetime = 24 * time.Hour

// POST /auth/register
// RegisterUser godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/auth/register [post]
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	err := validation.Errors{
		"username": validation.Validate(input.Username, validation.Required, validation.Length(1, 50)),
		"email":    validation.Validate(input.Email, validation.Required, is.Email),
		"password": validation.Validate(input.Password, validation.Required, validation.Length(8, 72)),
	}.Filter()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	email := strings.ToLower(input.Email)

	exists, err := svc.Store.ExistsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		badRequest(w, "User already exists with this email")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to hash password",
		})
		return
	}

	newUser := models.User{
		Username: input.Username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if err := svc.Store.Create(r.Context(), &newUser); err != nil {
		writeError(w, err)
		return
	}

	tokenString, expiration, err := issueToken(&newUser)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}
	setTokenCookie(w, tokenString, expiration)

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
		Data:    authPayload(tokenString, &newUser),
	})
}

// POST /auth/login
// LoginUser godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func LoginUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequest(w, "Invalid input")
		return
	}

	user, err := svc.Store.FindByEmail(r.Context(), strings.ToLower(input.Email))
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	tokenString, expiration, err := issueToken(user)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}
	setTokenCookie(w, tokenString, expiration)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data:    authPayload(tokenString, user),
	})
}

// GET /me
func Me(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := svc.Store.FindByID(r.Context(), c.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Current user",
		Data:    userPayload(user),
	})
}

// POST /auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	isProd := config.Envs.Environment == "production"

	// Delete the token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	redirectType := r.URL.Query().Get("redirect") // "login" or "register"
	if redirectType == "" {
		redirectType = "login"
	}

	state, err := GenerateState(map[string]string{"flow": redirectType})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.FormValue("state")
	stateData, err := DecodeState(state)
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	flowType := stateData["flow"] // "login" or "register"
	code := r.FormValue("code")

	token, err := services.GoogleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := services.GoogleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}

	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	email := strings.ToLower(googleUser.Email)
	user, findErr := svc.Store.FindByEmail(r.Context(), email)

	switch flowType {
	case "register":
		if findErr == nil {
			http.Redirect(w, r, clientURL("/login?error=user_already_exists"), http.StatusTemporaryRedirect)
			return
		}
		newUser := models.User{
			Username: googleUser.Name,
			Email:    email,
			Password: "", // Google-authenticated
			Role:     models.RoleUser,
		}
		if err := svc.Store.Create(r.Context(), &newUser); err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
		user = &newUser

	default: // login
		if findErr != nil {
			http.Redirect(w, r, clientURL("/register?error=user_not_found"), http.StatusTemporaryRedirect)
			return
		}
	}

	tokenString, expiration, err := issueToken(user)
	if err != nil {
		http.Error(w, "Failed to create JWT", http.StatusInternalServerError)
		return
	}
	setTokenCookie(w, tokenString, expiration)

	redirectURL := clientURL("/drive?status=success_login")
	if flowType == "register" {
		redirectURL = clientURL("/drive?status=success_register")
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

func issueToken(user *models.User) (string, time.Time, error) {
	expiration := time.Now().Add(tokenLifetime)
	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiration, nil
}

func setTokenCookie(w http.ResponseWriter, tokenString string, expiration time.Time) {
	isProd := config.Envs.Environment == "production"

	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

func authPayload(token string, user *models.User) map[string]any {
	return map[string]any{
		"token":     token,
		"tokenType": "Bearer",
		"user":      userPayload(user),
	}
}

func userPayload(user *models.User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
	}
}

func clientURL(path string) string {
	return "http://localhost:5173" + path
}

func badRequest(w http.ResponseWriter, message string) {
	utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
		Success: false,
		Message: message,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
		Success: false,
		Message: "Method not allowed",
	})
}
