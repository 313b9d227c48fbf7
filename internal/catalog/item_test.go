package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
)

func TestBuildItemBag(t *testing.T) {
	p := terminal.Product{ID: "p1", Name: "Dark Roast", Description: "Bold and smoky."}
	v := terminal.Variant{ID: "v1", Name: "12oz", Price: 2200}

	it := BuildItem(p, v)

	assert.Equal(t, "coffee_dark roast_p1_v1", it.ClassName)
	assert.Equal(t, "Bag of Dark Roast Coffee", it.Name)
	assert.Equal(t, "Bags of Dark Roast Coffee", it.PluralName)
	assert.Equal(t, 22, it.Value) // minor units -> whole currency
	assert.True(t, it.Usable)
	assert.False(t, it.IsSubscription)
	assert.Equal(t, 120, it.BoostValue)
	assert.Contains(t, it.LongDesc, "Bold and smoky.")
	assert.Contains(t, it.LongDesc, "12oz")
}

func TestBuildItemSubscription(t *testing.T) {
	p := terminal.Product{ID: "p2", Name: "Cron", Description: "A monthly subscription of beans."}
	v := terminal.Variant{ID: "v1", Name: "monthly", Price: 1500}

	it := BuildItem(p, v)

	assert.Equal(t, "Token of Cron Coffee Subscription", it.Name)
	assert.True(t, it.IsSubscription)
	assert.False(t, it.Usable)
	assert.Zero(t, it.BoostValue)
	assert.Equal(t, p.Description, it.LongDesc)
}

func TestBuildItemDeterministic(t *testing.T) {
	p := terminal.Product{ID: "p1", Name: "Flow", Description: "x"}
	v := terminal.Variant{ID: "v1", Name: "12oz", Price: 2500}
	assert.Equal(t, BuildItem(p, v), BuildItem(p, v))
}
