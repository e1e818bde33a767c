package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/imaging"
	"kdsgroup.co.in/hms/pkg/storage"
	"kdsgroup.co.in/hms/pkg/submission"
)

const (
	maxUploadSize = 50 << 20
	maxPhotos     = 5
)

type submissionResp struct {
	Reference string          `json:"reference"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// finishSubmission logs the forwarded payload, drops the user's cached
// lists on success and writes the response.
func (h *Handlers) finishSubmission(w http.ResponseWriter, r *http.Request, kind string, userID int, payload any, photos []string, out json.RawMessage, upstreamErr error) {
	ref := ""
	if h.Submissions != nil {
		l, err := submission.NewLog(kind, userID, payload, photos, upstreamErr)
		if err == nil {
			err = h.Submissions.Record(r.Context(), l)
			ref = l.Reference
		}
		if err != nil {
			h.Log.Warn("record submission", zap.String("kind", kind), zap.Error(err))
		}
	}

	if upstreamErr != nil {
		h.fail(w, r, upstreamErr)
		return
	}
	if err := h.Snapshots.Invalidate(r.Context(), userID); err != nil {
		h.Log.Warn("invalidate snapshot", zap.Int("userId", userID), zap.Error(err))
	}
	h.Log.Info("📨 submission forwarded", zap.String("kind", kind), zap.Int("userId", userID), zap.String("reference", ref))
	writeJSON(w, http.StatusCreated, submissionResp{Reference: ref, Data: out})
}

// decodeSubmission reads either a JSON body or a multipart form with a
// JSON "payload" field plus photos under "photo"/"photos". Photos are
// compressed and uploaded under prefix; their URLs are returned in order.
func (h *Handlers) decodeSubmission(r *http.Request, dst any, prefix string) ([]string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, badRequest("invalid JSON")
		}
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, badRequest("bad multipart form: " + err.Error())
	}
	if err := json.Unmarshal([]byte(r.FormValue("payload")), dst); err != nil {
		return nil, badRequest("invalid payload JSON")
	}

	files := slices.Concat(r.MultipartForm.File["photo"], r.MultipartForm.File["photos"])
	if len(files) > maxPhotos {
		return nil, badRequest(fmt.Sprintf("at most %d photos per submission", maxPhotos))
	}
	var urls []string
	for _, fh := range files {
		url, err := h.storePhoto(r, fh, prefix)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *Handlers) storePhoto(r *http.Request, fh *multipart.FileHeader, prefix string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", badRequest("unreadable photo: " + err.Error())
	}
	defer f.Close()

	img, err := imaging.Compress(f)
	if err != nil {
		return "", badRequest(fmt.Sprintf("photo %s: %v", fh.Filename, err))
	}
	// always stored as jpeg
	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)) + ".jpg"
	name := storage.ObjectName(prefix, base, time.Now())
	url, err := h.Uploader.Upload(r.Context(), name, "image/jpeg", bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return url, nil
}

// SubmitRequisition godoc
// @Summary      Raise a repair or rebore requisition
// @Description  JSON body, or multipart with a JSON "payload" field and an optional "photo".
// @Tags         requisitions
// @Accept       json,mpfd
// @Produce      json
// @Param        payload  formData  string  false  "RequisitionInput as JSON"
// @Param        photo    formData  file    false  "Handpump photo"
// @Success      201  {object}  submissionResp
// @Failure      400  {string}  string
// @Failure      502  {string}  string
// @Security     BearerAuth
// @Router       /requisitions [post]
func (h *Handlers) SubmitRequisition(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	var in models.RequisitionInput
	photos, err := h.decodeSubmission(r, &in, "requisitions")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.HandpumpID <= 0 {
		h.fail(w, r, badRequest("handpumpId is required"))
		return
	}
	switch {
	case strings.EqualFold(in.Mode, models.ModeRepair):
		in.Mode = models.ModeRepair
	case strings.EqualFold(in.Mode, models.ModeRebore):
		in.Mode = models.ModeRebore
	default:
		h.fail(w, r, badRequest("mode must be Repair or Rebore"))
		return
	}
	if len(photos) > 0 {
		in.ImageURL = photos[0]
	}
	if in.RequisitionDate.IsZero() {
		in.RequisitionDate = models.JSONTime(time.Now())
	}
	in.CreatedBy = userID

	out, err := h.API.InsertRequisitionDetails(r.Context(), in)
	h.finishSubmission(w, r, models.SubmissionRequisition, userID, in, photos, out, err)
}

// UpdateMBRemarks godoc
// @Summary      Update material book item remarks
// @Tags         mb
// @Accept       json
// @Produce      json
// @Param        body  body      models.MBRemarksInput  true  "Remarks"
// @Success      201   {object}  submissionResp
// @Failure      400   {string}  string
// @Failure      502   {string}  string
// @Security     BearerAuth
// @Router       /mb/remarks [post]
func (h *Handlers) UpdateMBRemarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	var in models.MBRemarksInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.RequisitionID <= 0 || len(in.Items) == 0 {
		http.Error(w, "requisitionId and items are required", http.StatusBadRequest)
		return
	}
	in.UpdatedBy = userID

	out, err := h.API.UpdateMbItemsRemark(r.Context(), in)
	h.finishSubmission(w, r, models.SubmissionMBRemarks, userID, in, nil, out, err)
}

// SubmitVisit godoc
// @Summary      Record a handpump visit inspection
// @Description  JSON body, or multipart with a JSON "payload" field and "photos".
// @Tags         mb
// @Accept       json,mpfd
// @Produce      json
// @Success      201  {object}  submissionResp
// @Failure      400  {string}  string
// @Failure      502  {string}  string
// @Security     BearerAuth
// @Router       /visits [post]
func (h *Handlers) SubmitVisit(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	var in models.VisitReport
	photos, err := h.decodeSubmission(r, &in, "visits")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.RequisitionID <= 0 {
		h.fail(w, r, badRequest("requisitionId is required"))
		return
	}
	in.Photos = append(in.Photos, photos...)
	if in.VisitDate.IsZero() {
		in.VisitDate = models.JSONTime(time.Now())
	}
	in.VisitedBy = userID

	out, err := h.API.InsertHandpumpVisitMonitoring(r.Context(), in)
	h.finishSubmission(w, r, models.SubmissionVisit, userID, in, photos, out, err)
}

// ListSubmissions godoc
// @Summary      The user's forwarded submissions, newest first
// @Tags         submissions
// @Produce      json
// @Param        limit  query  int  false  "Max entries, default 50"
// @Success      200  {array}  models.SubmissionLog
// @Security     BearerAuth
// @Router       /submissions [get]
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	limit, set, err := intParam(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !set {
		limit = 50
	}
	if h.Submissions == nil {
		writeJSON(w, http.StatusOK, []models.SubmissionLog{})
		return
	}
	logs, err := h.Submissions.List(r.Context(), userID, limit)
	if err != nil {
		h.fail(w, r, fmt.Errorf("list submissions: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
