package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashew/internal/errors"
	"cashew/internal/services"
)

// SharingHandler handles ledger sharing requests.
type SharingHandler struct {
	sharingService services.SharingServicer
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(sharingService services.SharingServicer) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

// InviteRequest represents the request payload for sending a share invite.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InviteCollaborator handles sending a share invite by email.
// @Summary     Invite collaborator
// @Description Send a ledger share invite to another user by email
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InviteRequest true "Invitee email"
// @Success     201 {object} models.ShareInvite "Invite created"
// @Failure     400 {object} ErrorResponse "Invalid input or self-share"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Already sharing or invite pending"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sharing/invites [post]
func (h *SharingHandler) InviteCollaborator(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invite, err := h.sharingService.InviteByEmail(userID, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invite": invite})
}

// GetPendingInvites handles listing invites awaiting the user's response.
// @Summary     List pending invites
// @Description Get share invites sent to the authenticated user that are still pending
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.ShareInvite "Pending invites"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sharing/invites [get]
func (h *SharingHandler) GetPendingInvites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invites, err := h.sharingService.ListPendingInvites(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// AcceptInvite handles accepting a share invite.
// @Summary     Accept invite
// @Description Accept a pending share invite, linking both ledgers
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Invite ID"
// @Success     200 {object} models.ShareInvite "Accepted invite"
// @Failure     400 {object} ErrorResponse "Invalid invite ID or invite not pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invite not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sharing/invites/{id}/accept [post]
func (h *SharingHandler) AcceptInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	inviteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invite, err := h.sharingService.AcceptInvite(userID, inviteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

// DeclineInvite handles declining a share invite.
// @Summary     Decline invite
// @Description Decline a pending share invite
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Invite ID"
// @Success     200 {object} models.ShareInvite "Declined invite"
// @Failure     400 {object} ErrorResponse "Invalid invite ID or invite not pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invite not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sharing/invites/{id}/decline [post]
func (h *SharingHandler) DeclineInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	inviteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invite, err := h.sharingService.DeclineInvite(userID, inviteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

// GetCollaborators handles listing users whose ledgers are visible.
// @Summary     List collaborators
// @Description Get the users whose ledgers are merged into the authenticated user's views
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} UserResponse "Collaborators"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Sharing data unavailable"
// @Router      /sharing/collaborators [get]
func (h *SharingHandler) GetCollaborators(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	collaborators, err := h.sharingService.ListCollaborators(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result := make([]UserResponse, 0, len(collaborators))
	for _, u := range collaborators {
		result = append(result, UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": result})
}

// RevokeSharing handles removing a sharing link.
// @Summary     Revoke sharing
// @Description Remove the sharing link with a collaborator in both directions
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Collaborator user ID"
// @Success     200 {object} MessageResponse "Sharing revoked"
// @Failure     400 {object} ErrorResponse "Invalid collaborator ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No sharing link with this user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sharing/collaborators/{id} [delete]
func (h *SharingHandler) RevokeSharing(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	collaboratorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sharingService.RevokeSharing(userID, collaboratorID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sharing revoked"})
}
