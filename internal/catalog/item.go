package catalog

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
)

// Icon ids reused from existing world assets.
const (
	iconRoastedBeans = 0x06001D83
	iconCopperScarab = 0x060013E4
)

const (
	useTextBag          = "Grind these beans to brew them! Or eat them as-is, I guess. Still good for you."
	useTextSubscription = "This is a token of your subscription. You can't do anything with it; you'll have to wait."
)

// Item is one sellable row in the world database, one per product x variant.
type Item struct {
	ClassID   uint32
	ClassName string

	Name       string
	PluralName string
	UseText    string
	ShortDesc  string
	LongDesc   string

	Value          int
	StackSize      int
	MaxStackSize   int
	Encumbrance    int
	Usable         bool
	IsSubscription bool
	IconID         uint32

	// stamina restore on consumption; zero for subscription tokens
	BoostValue int
}

// BuildItem computes the full property set for a (product, variant) pair.
// Pure: same inputs, same row (ClassID is assigned later, inside the
// creation transaction).
func BuildItem(p terminal.Product, v terminal.Variant) Item {
	sub := strings.Contains(p.Description, "subscription")

	it := Item{
		ClassName:      ItemClassName(p.Name, p.ID, v.ID),
		Value:          v.Price / 100,
		StackSize:      1,
		MaxStackSize:   100,
		Encumbrance:    50,
		IsSubscription: sub,
	}

	if sub {
		it.Name = fmt.Sprintf("Token of %s Coffee Subscription", p.Name)
		it.PluralName = fmt.Sprintf("Tokens of %s Coffee Subscription", p.Name)
		it.UseText = useTextSubscription
		it.ShortDesc = fmt.Sprintf("A Token of %s Subscription", p.Name)
		it.LongDesc = p.Description
		it.Usable = false
		it.IconID = iconCopperScarab
		return it
	}

	it.Name = fmt.Sprintf("Bag of %s Coffee", p.Name)
	it.PluralName = fmt.Sprintf("Bags of %s Coffee", p.Name)
	it.UseText = useTextBag
	it.ShortDesc = fmt.Sprintf("A bag of %s coffee beans", p.Name)
	it.LongDesc = fmt.Sprintf("A bag of %s coffee beans.\n\n%s\n\n%s", p.Name, p.Description, v.Name)
	it.Usable = true
	it.IconID = iconRoastedBeans
	it.BoostValue = 120
	return it
}
