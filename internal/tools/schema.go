package tools

// SchemaJSON is the tool declaration array sent upstream with every chat
// request, kept as raw JSON and injected verbatim into the payload.
// Descriptions are bilingual so the model picks the right tool regardless of
// the guest's language.
const SchemaJSON = `[
  {
    "type": "function",
    "function": {
      "name": "check_availability",
      "description": "Verifica disponibilitatea proprietatilor pentru un interval de date. / Check property availability for a date range.",
      "parameters": {
        "type": "object",
        "properties": {
          "check_in": {"type": "string", "description": "Data de check-in, format YYYY-MM-DD"},
          "check_out": {"type": "string", "description": "Data de check-out, format YYYY-MM-DD"},
          "guests": {"type": "integer", "description": "Numarul de persoane / number of guests"}
        },
        "required": ["check_in", "check_out"]
      }
    }
  },
  {
    "type": "function",
    "function": {
      "name": "estimate_pricing",
      "description": "Estimeaza tariful pe noapte pentru o unitate dupa suprafata. / Estimate the nightly rate for a unit by floor area.",
      "parameters": {
        "type": "object",
        "properties": {
          "area_sqm": {"type": "number", "description": "Suprafata in metri patrati / area in square meters"}
        },
        "required": ["area_sqm"]
      }
    }
  },
  {
    "type": "function",
    "function": {
      "name": "estimate_profit",
      "description": "Estimeaza profitul lunar al proprietarului in regim hotelier. / Estimate monthly owner profit from short-term rental.",
      "parameters": {
        "type": "object",
        "properties": {
          "area_sqm": {"type": "number", "description": "Suprafata in metri patrati / area in square meters"},
          "nightly_rate_eur": {"type": "number", "description": "Tarif pe noapte in EUR / nightly rate in EUR"},
          "occupancy_pct": {"type": "number", "description": "Grad de ocupare estimat in procente / expected occupancy percent"}
        },
        "required": ["area_sqm"]
      }
    }
  }
]`
