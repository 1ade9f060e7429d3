package tests

import (
	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/schema"
)

// Customer has many `Orders` (one to many, cascade all)
// Order belongs to a `Customer` (pointer, cascade insert and update) and
// has one `ShippingInfo` (one to one, cascade all)
func Entities() []*schema.Entity {
	return []*schema.Entity{
		{
			Name: "Customer",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "name", Size: 64, NotNull: true},
				{Name: "email"},
				{Name: "orders", Kind: schema.OneToMany, Target: "Order", Cascade: schema.CascadeAll},
			},
		},
		{
			Name: "Order",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "note"},
				{Name: "total", DataType: schema.Float},
				{Name: "customer_id", DataType: schema.Int},
				{Name: "customer", Kind: schema.Pointer, Target: "Customer", Cascade: schema.CascadeInsert | schema.CascadeUpdate},
				{Name: "shipping_info", Kind: schema.OneToOne, Target: "ShippingInfo", Cascade: schema.CascadeAll},
			},
		},
		{
			Name: "ShippingInfo",
			Table: "shipping_infos",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "address"},
				{Name: "order_id", DataType: schema.Int},
			},
		},
	}
}

// Group has many `Members` (one to many, cascade all) and no column
// besides its key; Member leaves the type of `group_id` to the key it mirrors
func GroupEntities() []*schema.Entity {
	return []*schema.Entity{
		{
			Name: "Group",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "members", Kind: schema.OneToMany, Target: "Member", Cascade: schema.CascadeAll},
			},
		},
		{
			Name: "Member",
			Fields: []*schema.Field{
				{Name: "id", Kind: schema.Key},
				{Name: "name"},
				{Name: "group_id"},
			},
		},
	}
}

// NewRegistry a built registry of Entities
func NewRegistry() *schema.Registry {
	return BuildRegistry(Entities()...)
}

// BuildRegistry register and build entities, panics on invalid metadata
func BuildRegistry(entities ...*schema.Entity) *schema.Registry {
	registry := schema.NewRegistry(nil)
	if err := registry.Register(entities...); err != nil {
		panic(err)
	}
	if err := registry.Build(); err != nil {
		panic(err)
	}
	return registry
}

var (
	Registry         = NewRegistry()
	CustomerMeta     = Registry.MustLookup("Customer")
	OrderMeta        = Registry.MustLookup("Order")
	ShippingInfoMeta = Registry.MustLookup("ShippingInfo")
)

type Customer struct {
	*relgraph.Entity
}

func NewCustomer(name string) Customer {
	c := Customer{relgraph.Default(CustomerMeta)}
	c.Set("name", name)
	return c
}

func (c Customer) Name() string {
	s, _ := c.Value("name").Text()
	return s
}

func (c Customer) Orders() ([]Order, error) {
	nodes, err := c.OneMany("orders")
	if err != nil {
		return nil, err
	}
	orders := make([]Order, len(nodes))
	for i, node := range nodes {
		orders[i] = Order{node}
	}
	return orders, nil
}

func (c Customer) SetOrders(orders ...Order) {
	c.SetOneMany("orders", relgraph.Inners(orders))
}

type Order struct {
	*relgraph.Entity
}

func NewOrder(note string, total float64) Order {
	o := Order{relgraph.Default(OrderMeta)}
	o.Set("note", note)
	o.Set("total", total)
	return o
}

func (o Order) Note() string {
	s, _ := o.Value("note").Text()
	return s
}

func (o Order) Total() float64 {
	f, _ := o.Value("total").Float64()
	return f
}

func (o Order) CustomerID() (int64, bool) {
	return o.Value("customer_id").Int64()
}

func (o Order) Customer() (Customer, error) {
	node, err := o.Pointer("customer")
	return Customer{node}, err
}

func (o Order) SetCustomer(c Customer) {
	o.SetPointer("customer", c)
}

func (o Order) ShippingInfo() (ShippingInfo, error) {
	node, err := o.OneOne("shipping_info")
	return ShippingInfo{node}, err
}

func (o Order) SetShippingInfo(s ShippingInfo) {
	o.SetOneOne("shipping_info", s)
}

type ShippingInfo struct {
	*relgraph.Entity
}

func NewShippingInfo(address string) ShippingInfo {
	s := ShippingInfo{relgraph.Default(ShippingInfoMeta)}
	s.Set("address", address)
	return s
}

func (s ShippingInfo) Address() string {
	a, _ := s.Value("address").Text()
	return a
}

func (s ShippingInfo) OrderID() (int64, bool) {
	return s.Value("order_id").Int64()
}
