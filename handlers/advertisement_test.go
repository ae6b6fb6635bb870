package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-backend/models"

	"github.com/google/uuid"
)

func adBody(kind, title string, position int, extra map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"kind":       kind,
		"title":      title,
		"start_date": testNow.AddDate(0, 0, -1),
		"end_date":   testNow.AddDate(0, 0, 1),
		"is_active":  true,
		"position":   position,
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestCreateAdvertisementFillsSlotsThenRefuses(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	for i := 1; i <= 2; i++ {
		w := serve(router, authRequest("POST", "/api/admin/advertisements", adBody("horizontal", fmt.Sprintf("H%d", i), 0, nil), adminToken()))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if resp := parseResponse(w); resp["position"] != float64(i) {
			t.Errorf("expected position %d, got %v", i, resp["position"])
		}
	}

	w := serve(router, authRequest("POST", "/api/admin/advertisements", adBody("horizontal", "H3", 0, nil), adminToken()))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error"] != "all 2 horizontal advertisement slots are taken" {
		t.Errorf("unexpected error: %v", resp["error"])
	}

	// Vertical slots are independent of horizontal ones.
	w = serve(router, authRequest("POST", "/api/admin/advertisements", adBody("vertical", "V1", 0, nil), adminToken()))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["position"] != float64(1) {
		t.Errorf("expected vertical position 1, got %v", resp["position"])
	}
}

func TestCreateAdvertisementFullClassExplicitPosition(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	first := seedAd(db, models.AdKindHorizontal, "H1", 1, true)
	seedAd(db, models.AdKindHorizontal, "H2", 2, true)

	w := serve(router, authRequest("POST", "/api/admin/advertisements", adBody("horizontal", "H3", 2, nil), adminToken()))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := positionOf(db, "advertisements", first.ID); got != 1 {
		t.Errorf("expected refused create to leave positions alone, got %d", got)
	}
}

func TestCreateAdvertisementPositionOutOfRange(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	w := serve(router, authRequest("POST", "/api/admin/advertisements", adBody("vertical", "Too far", 4, nil), adminToken()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateAdvertisementValidation(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	bodies := []map[string]interface{}{
		adBody("diagonal", "Bad kind", 0, nil),
		adBody("vertical", "", 0, nil),
		adBody("vertical", "Negative price", 0, map[string]interface{}{"price": -5}),
	}
	for _, body := range bodies {
		w := serve(router, authRequest("POST", "/api/admin/advertisements", body, adminToken()))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestCreateAdvertisementCarriesDiscount(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	body := adBody("vertical", "Promo", 0, map[string]interface{}{"price": 50, "compare_price": 150})
	w := serve(router, authRequest("POST", "/api/admin/advertisements", body, adminToken()))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["has_discount"] != true || resp["discount_percentage"] != float64(67) {
		t.Errorf("expected 67%% discount, got %v / %v", resp["has_discount"], resp["discount_percentage"])
	}
	if resp["status"] != "active" {
		t.Errorf("expected status active, got %v", resp["status"])
	}
	if resp["cta"] != nil {
		t.Errorf("expected no CTA, got %v", resp["cta"])
	}
}

func TestUpdateAdvertisementSwapsWithinKind(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	v1 := seedAd(db, models.AdKindVertical, "V1", 1, true)
	v3 := seedAd(db, models.AdKindVertical, "V3", 3, true)
	h1 := seedAd(db, models.AdKindHorizontal, "H1", 1, true)

	w := serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", v3.ID), adBody("vertical", "V3", 1, nil), adminToken()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := positionOf(db, "advertisements", v3.ID); got != 1 {
		t.Errorf("expected V3 at 1, got %d", got)
	}
	if got := positionOf(db, "advertisements", v1.ID); got != 3 {
		t.Errorf("expected V1 swapped to 3, got %d", got)
	}
	if got := positionOf(db, "advertisements", h1.ID); got != 1 {
		t.Errorf("expected horizontal ad untouched, got %d", got)
	}
}

func TestUpdateAdvertisementIntoEmptySlot(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	v := seedAd(db, models.AdKindVertical, "V", 1, true)

	w := serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", v.ID), adBody("vertical", "V", 3, nil), adminToken()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := positionOf(db, "advertisements", v.ID); got != 3 {
		t.Errorf("expected V at 3, got %d", got)
	}
}

func TestUpdateAdvertisementKindIsFixed(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	h := seedAd(db, models.AdKindHorizontal, "H", 1, true)

	w := serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", h.ID), adBody("vertical", "H", 0, nil), adminToken()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error"] != "Advertisement kind cannot be changed" {
		t.Errorf("unexpected error: %v", resp["error"])
	}
}

func TestUpdateAdvertisementStaleVersion(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	h := seedAd(db, models.AdKindHorizontal, "H", 1, true)
	db.Model(&models.Advertisement{}).Where("id = ?", h.ID).Update("version", 4)

	body := adBody("horizontal", "Late edit", 0, map[string]interface{}{"version": 3})
	w := serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", h.ID), body, adminToken()))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	body["version"] = 4
	w = serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", h.ID), body, adminToken()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["version"] != float64(5) {
		t.Errorf("expected version 5, got %v", resp["version"])
	}
}

func TestUpdateAdvertisementNotFound(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	w := serve(router, authRequest("PUT", fmt.Sprintf("/api/admin/advertisements/%s", uuid.New()), adBody("vertical", "X", 0, nil), adminToken()))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteAdvertisementFreesSlot(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	h1 := seedAd(db, models.AdKindHorizontal, "H1", 1, true)
	seedAd(db, models.AdKindHorizontal, "H2", 2, true)

	w := serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/advertisements/%s", h1.ID), nil, adminToken()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("POST", "/api/admin/advertisements", adBody("horizontal", "H3", 0, nil), adminToken()))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["position"] != float64(1) {
		t.Errorf("expected freed position 1, got %v", resp["position"])
	}

	w = serve(router, authRequest("DELETE", fmt.Sprintf("/api/admin/advertisements/%s", uuid.New()), nil, adminToken()))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestReorderAdvertisements(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	v1 := seedAd(db, models.AdKindVertical, "V1", 1, true)
	v2 := seedAd(db, models.AdKindVertical, "V2", 2, true)
	v3 := seedAd(db, models.AdKindVertical, "V3", 3, true)
	seedAd(db, models.AdKindHorizontal, "H1", 1, true)

	body := map[string]interface{}{"ids": []string{v3.ID.String(), v1.ID.String(), v2.ID.String()}}
	w := serve(router, authRequest("PUT", "/api/admin/advertisements/reorder/vertical", body, adminToken()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := titles(parseResponseArray(w))
	want := []string{"V3", "V1", "V2"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReorderAdvertisementsRejects(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	v1 := seedAd(db, models.AdKindVertical, "V1", 1, true)
	h1 := seedAd(db, models.AdKindHorizontal, "H1", 1, true)

	w := serve(router, authRequest("PUT", "/api/admin/advertisements/reorder/diagonal", map[string]interface{}{"ids": []string{v1.ID.String()}}, adminToken()))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid kind: expected status 400, got %d", w.Code)
	}

	w = serve(router, authRequest("PUT", "/api/admin/advertisements/reorder/vertical", map[string]interface{}{"ids": []string{h1.ID.String()}}, adminToken()))
	if w.Code != http.StatusBadRequest {
		t.Errorf("other kind's id: expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(router, authRequest("PUT", "/api/admin/advertisements/reorder/vertical", map[string]interface{}{"ids": []string{uuid.New().String()}}, adminToken()))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown id: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAdvertisementsOnlyActiveNow(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	seedAd(db, models.AdKindHorizontal, "H live", 1, true)
	seedAd(db, models.AdKindHorizontal, "H off", 2, false)
	seedAd(db, models.AdKindVertical, "V live", 1, true)
	expired := models.Advertisement{
		Kind:      models.AdKindVertical,
		Title:     "V expired",
		StartDate: testNow.AddDate(0, 0, -10),
		EndDate:   testNow.AddDate(0, 0, -2),
		IsActive:  true,
		Position:  2,
	}
	db.Create(&expired)

	w := serve(router, httptest.NewRequest("GET", "/api/advertisements", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := titles(parseResponseArray(w))
	want := []string{"H live", "V live"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	w = serve(router, httptest.NewRequest("GET", "/api/advertisements?kind=vertical", nil))
	if got := titles(parseResponseArray(w)); fmt.Sprint(got) != "[V live]" {
		t.Errorf("expected only V live, got %v", got)
	}

	w = serve(router, httptest.NewRequest("GET", "/api/advertisements?kind=square", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown kind, got %d", w.Code)
	}
}

func TestGetAllAdvertisementsIncludesEveryStatus(t *testing.T) {
	db := freshDB()
	router := setupAdvertisementRouter(db)

	seedAd(db, models.AdKindHorizontal, "H live", 1, true)
	seedAd(db, models.AdKindHorizontal, "H off", 2, false)

	w := serve(router, authRequest("GET", "/api/admin/advertisements?kind=horizontal", nil, adminToken()))
	result := parseResponseArray(w)
	if len(result) != 2 {
		t.Fatalf("expected 2 ads, got %d", len(result))
	}
	if result[1]["status"] != "inactive" {
		t.Errorf("expected second ad inactive, got %v", result[1]["status"])
	}
}
