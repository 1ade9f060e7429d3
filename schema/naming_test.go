package schema

import (
	"testing"
)

func TestSnakeCase(t *testing.T) {
	var maps = map[string]string{
		"":                          "",
		"x":                         "x",
		"X":                         "x",
		"userRestrictions":          "user_restrictions",
		"ThisIsATest":               "this_is_a_test",
		"PFAndESI":                  "pf_and_esi",
		"AbcAndJkl":                 "abc_and_jkl",
		"EmployeeID":                "employee_id",
		"SKU_ID":                    "sku_id",
		"FieldX":                    "field_x",
		"HTTPAndSMTP":               "http_and_smtp",
		"HTTPServerHandlerForURLID": "http_server_handler_for_url_id",
		"UUID":                      "uuid",
		"HTTPURL":                   "http_url",
		"HTTP_URL":                  "http_url",
		"SHA256Hash":                "sha256_hash",
		"SHA256HASH":                "sha256_hash",
		"ThisIsOneLongEntityNameSoWeCheckThatEveryWordIsSplitAndIdCanBeUsedAtTheEndAsID": "this_is_one_long_entity_name_so_we_check_that_every_word_is_split_and_id_can_be_used_at_the_end_as_id",
	}

	for key, value := range maps {
		if snakeCase(key) != value {
			t.Errorf("%v should become %v, but got %v", key, value, snakeCase(key))
		}
	}
}

func TestNamingStrategy(t *testing.T) {
	ns := NamingStrategy{}
	cases := []struct{ got, want string }{
		{ns.TableName("Order"), "orders"},
		{ns.TableName("Customer"), "customers"},
		{ns.TableName("Person"), "people"},
		{ns.ColumnName("orders", "CustomerID"), "customer_id"},
		{ns.ColumnName("orders", "note"), "note"},
		{ns.ForeignKeyName("Customer"), "customer_id"},
		{ns.ForeignKeyName("shippingInfo"), "shipping_info_id"},
		{NamingStrategy{TablePrefix: "t_", SingularTable: true}.TableName("Order"), "t_order"},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("expected %v, got %v", c.want, c.got)
		}
	}
}
