package structs

import (
	"bytes"
	"strconv"
)

// CheckoutRequest is the JSON body posted by the storefront. Quantities and
// prices are revalidated server-side, never trusted.
type CheckoutRequest struct {
	CustomerName  string     `json:"customer_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartItem `json:"items"`

	// SeniorDiscount is the SC/PWD claim; honored only after ID verification
	// at pickup. Storefronts send it as true/false, 1/0 or "1"/"0".
	SeniorDiscount FlexibleBool `json:"senior_discount"`

	Loyalty *LoyaltyRedemptionRequest `json:"loyalty,omitempty"`
}

type CartItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type LoyaltyRedemptionRequest struct {
	PointsRedeemed  int64 `json:"pointsRedeemed"`
	LoyaltyMemberID int64 `json:"loyaltyMemberId"`
}

// VerifiedItem is a cart line after server-side revalidation against the
// products table.
type VerifiedItem struct {
	ProductID  int64
	Name       string
	Quantity   int
	Price      float64
	Subtotal   float64
	RequiresRx bool
}

// CheckoutResult carries everything the HTTP layer needs to build the
// checkout response.
type CheckoutResult struct {
	OrderID     int64
	OrderNumber string
	TotalAmount float64

	RequiresPrescription bool
	RxWarning            string
	RxProducts           []string

	PointsRedeemed  int64
	DiscountApplied float64
	LoyaltyMessage  string

	SCPWDClaimed bool
	SCPWDMessage string
}

// FlexibleBool accepts JSON true/false, 0/1 and their string forms. Legacy
// storefront builds are inconsistent about how they send the SC/PWD flag.
type FlexibleBool bool

func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	switch s {
	case "true", "1", "on", "yes":
		*fb = true
	case "", "null", "false", "0", "off", "no":
		*fb = false
	default:
		v, err := strconv.ParseBool(s)
		if err != nil {
			*fb = false
			return nil // tolerate junk rather than failing the whole request
		}
		*fb = FlexibleBool(v)
	}
	return nil
}

func (fb FlexibleBool) Bool() bool { return bool(fb) }
