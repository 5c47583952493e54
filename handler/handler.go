package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shopping-backend/model"
	"shopping-backend/service"
)

// Handler is the HTTP layer over the service interfaces.
type Handler struct {
	customers service.CustomerServiceInterface
	products  service.ProductServiceInterface
	checkout  service.CheckoutServiceInterface
}

func NewHandler(customers service.CustomerServiceInterface, products service.ProductServiceInterface, checkout service.CheckoutServiceInterface) *Handler {
	return &Handler{customers: customers, products: products, checkout: checkout}
}

// RegisterRoutes registers all routes on the provided router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Customers
	r.HandleFunc("/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/signin", h.SignIn).Methods("POST")
	r.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	r.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	r.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")
	r.HandleFunc("/customers/{id}/password", h.UpdatePassword).Methods("PUT")
	r.HandleFunc("/customers/{id}/image", h.UpdateImage).Methods("PUT")

	// Addresses
	r.HandleFunc("/customers/{id}/addresses", h.CreateAddress).Methods("POST")
	r.HandleFunc("/customers/{id}/addresses", h.ListAddresses).Methods("GET")
	r.HandleFunc("/customers/{id}/addresses/{name}", h.GetAddress).Methods("GET")
	r.HandleFunc("/customers/{id}/addresses/{name}", h.DeleteAddress).Methods("DELETE")

	// Cards
	r.HandleFunc("/customers/{id}/cards", h.AddCard).Methods("POST")
	r.HandleFunc("/customers/{id}/cards", h.ListCards).Methods("GET")
	r.HandleFunc("/customers/{id}/cards/{last4}", h.GetCard).Methods("GET")
	r.HandleFunc("/customers/{id}/cards/{last4}", h.DeleteCard).Methods("DELETE")

	// Cart
	r.HandleFunc("/customers/{id}/cart", h.AddCartItem).Methods("POST")
	r.HandleFunc("/customers/{id}/cart", h.GetCart).Methods("GET")
	r.HandleFunc("/customers/{id}/cart/{productID}", h.RemoveCartItem).Methods("DELETE")

	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	// Orders
	r.HandleFunc("/customers/{id}/orders", h.Checkout).Methods("POST")
	r.HandleFunc("/customers/{id}/orders", h.ListOrders).Methods("GET")
	r.HandleFunc("/customers/{id}/orders/{orderID}", h.GetOrder).Methods("GET")
}

// --- request shapes ---

type signUpReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateCustomerReq struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type updatePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type createCardReq struct {
	Number   string `json:"number"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
	CVC      int64  `json:"cvc"`
}

type cartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createProductReq struct {
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
}

type createOrderReq struct {
	AddressName string `json:"address_name"`
	CardLast4   int64  `json:"card_last4"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainErr maps the error taxonomy onto HTTP status codes.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrAlreadyExists):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidState):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrPaymentProvider):
		writeErr(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, model.ErrLocalPersistence), errors.Is(err, model.ErrCompensationFailed):
		writeErr(w, http.StatusInternalServerError, "something went wrong")
	default:
		writeErr(w, http.StatusBadRequest, err.Error())
	}
}

func parseLast4(w http.ResponseWriter, r *http.Request) (int64, bool) {
	last4, err := strconv.ParseInt(mux.Vars(r)["last4"], 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid last4")
		return 0, false
	}
	return last4, true
}

// --- customers ---

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	customer, err := h.customers.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	customer, err := h.customers.Authenticate(req.Email, req.Password)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	customer, err := h.customers.UpdateProfile(r.Context(), mux.Vars(r)["id"], req.Name, req.Email)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.customers.UpdatePassword(r.Context(), mux.Vars(r)["id"], req.OldPassword, req.NewPassword); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	url, err := h.customers.UpdateImage(r.Context(), mux.Vars(r)["id"], r.Body)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.DeleteCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- addresses ---

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req model.Address
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	address, err := h.customers.CreateAddress(mux.Vars(r)["id"], req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, address)
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.customers.ListAddresses(mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addresses)
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address, err := h.customers.GetAddress(vars["id"], vars["name"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.customers.DeleteAddress(vars["id"], vars["name"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- cards ---

func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req createCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	card, err := h.customers.AddCard(r.Context(), mux.Vars(r)["id"], req.Number, req.ExpMonth, req.ExpYear, req.CVC)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.customers.ListCards(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	last4, ok := parseLast4(w, r)
	if !ok {
		return
	}
	card, err := h.customers.GetCard(r.Context(), mux.Vars(r)["id"], last4)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	last4, ok := parseLast4(w, r)
	if !ok {
		return
	}
	if err := h.customers.DeleteCard(r.Context(), mux.Vars(r)["id"], last4); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- cart ---

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id required")
		return
	}
	if err := h.customers.AddCartItem(mux.Vars(r)["id"], req.ProductID, req.Quantity); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	items, total, err := h.customers.GetCart(id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"customer_id": id, "items": items, "total": total})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.customers.RemoveCartItem(vars["id"], vars["productID"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// --- products ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	product, err := h.products.CreateProduct(req.Category, req.Brand, req.Name, req.Description, req.Price, req.Images)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts()
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// --- orders ---

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	order, err := h.checkout.CreateOrder(r.Context(), mux.Vars(r)["id"], req.AddressName, req.CardLast4)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListOrders(mux.Vars(r)["id"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := h.checkout.GetOrder(vars["id"], vars["orderID"])
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
