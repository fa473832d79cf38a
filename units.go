package matdb

// units maps property names to their unit string. Properties missing here
// have no unit attached; specific-heat deliberately stays unset.
var units = map[string]string{
	"molecular-weight":                       "g/mol",
	"thermal-conductivity":                   "W/(m·K)",
	"viscosity":                              "Pa·s",
	"formation-enthalpy":                     "J/mol",
	"formation-entropy":                      "J/(mol·K)",
	"latent-heat":                            "J/kg",
	"vaporization-temperature":               "K",
	"boiling-point":                          "K",
	"binary-diffusivity":                     "m²/s",
	"film-diffusivity":                       "m²/s",
	"characteristic-vibrational-temperature": "K",
}

// UnitFor returns the unit for a property name, or "" when unknown.
func UnitFor(property string) string {
	return units[property]
}
