package codes

var productClasses = map[string]string{
	"O": "Operational Product",
	"T": "Test Product",
	"E": "Experimental Product",
	"X": "Experimental VTEC in an Operational Product",
}

var significances = map[string]string{
	"W": "Warning",
	"A": "Watch",
	"Y": "Advisory",
	"S": "Statement",
	"F": "Forecast",
	"O": "Outlook",
	"N": "Synopsis",
}

var actions = map[string]string{
	"NEW": "New Event",
	"CON": "Event Continued",
	"EXT": "Event Extended (Time)",
	"EXA": "Event Extended (Area)",
	"EXB": "Event Extended (Time and Area)",
	"UPG": "Upgraded",
	"CAN": "Event Canceled",
	"EXP": "Event Expired",
	"COR": "Correction",
	"ROU": "Routine",
}

var phenomena = map[string]string{
	"AF": "Ashfall",
	"AS": "Air Stagnation",
	"BS": "Blowing Snow",
	"BW": "Brisk Wind",
	"BZ": "Blizzard",
	"CF": "Coastal Flood",
	"DS": "Dust Storm",
	"DU": "Blowing Dust",
	"EC": "Extreme Cold",
	"EH": "Extreme Heat",
	"EW": "Extreme Wind",
	"FA": "Areal Flood",
	"FF": "Flash Flood",
	"FG": "Dense Fog",
	"FL": "Flood",
	"FR": "Frost",
	"FW": "Fire Weather",
	"FZ": "Freeze",
	"GL": "Gale",
	"HF": "Hurricane Force Wind",
	"HI": "Inland Hurricane",
	"HS": "Heavy Snow",
	"HT": "Heat",
	"HU": "Hurricane",
	"HW": "High Wind",
	"HY": "Hydrologic",
	"HZ": "Hard Freeze",
	"IP": "Sleet",
	"IS": "Ice Storm",
	"LB": "Lake Effect Snow and Blowing Snow",
	"LE": "Lake Effect Snow",
	"LO": "Low Water",
	"LS": "Lakeshore Flood",
	"LW": "Lake Wind",
	"MA": "Marine",
	"RB": "Small Craft for Rough Bar",
	"SB": "Snow and Blowing Snow",
	"SC": "Small Craft",
	"SE": "Hazardous Seas",
	"SI": "Small Craft for Winds",
	"SM": "Dense Smoke",
	"SN": "Snow",
	"SR": "Storm",
	"SU": "High Surf",
	"SV": "Severe Thunderstorm",
	"SW": "Small Craft for Hazardous Seas",
	"TI": "Inland Tropical Storm",
	"TO": "Tornado",
	"TR": "Tropical Storm",
	"TS": "Tsunami",
	"TY": "Typhoon",
	"UP": "Ice Accretion",
	"WC": "Wind Chill",
	"WI": "Wind",
	"WS": "Winter Storm",
	"WW": "Winter Weather",
	"ZF": "Freezing Fog",
	"ZR": "Freezing Rain",
}

var floodSeverities = map[string]string{
	"N": "None",
	"0": "Areal Flood or Flash Flood Product",
	"1": "Minor",
	"2": "Moderate",
	"3": "Major",
	"U": "Unknown",
}

var immediateCauses = map[string]string{
	"ER": "Excessive Rain",
	"SM": "Snow Melt",
	"RS": "Rain and Snow Melt",
	"DM": "Dam or Levee Failure",
	"IJ": "Ice Jam",
	"GO": "Glacier-Dammed Lake Outburst",
	"IC": "Rain and/or Snowmelt and/or Ice Jam",
	"FS": "Upstream Flooding plus Storm Surge",
	"FT": "Upstream Flooding plus Tidal Effects",
	"ET": "Elevated Upstream Flow plus Tidal Effects",
	"WT": "Wind and/or Tidal Effects",
	"DR": "Upstream Dam or Reservoir Release",
	"MC": "Multiple Causes",
	"OT": "Other Effects",
	"UU": "Unknown",
}

var floodRecordStatuses = map[string]string{
	"NO": "A record flood is not expected",
	"NR": "Near record or record flood expected",
	"UU": "Flood without a period of record to compare",
	"OO": "For areal flood warnings, areal flash flood products, and flood advisories (point and areal)",
}

// nwisEvents maps SAME event codes to their names.
var nwisEvents = map[string]string{
	"ADR": "Administrative Message",
	"AVA": "Avalanche Watch",
	"AVW": "Avalanche Warning",
	"BZW": "Blizzard Warning",
	"CAE": "Child Abduction Emergency",
	"CDW": "Civil Danger Warning",
	"CEM": "Civil Emergency Message",
	"CFA": "Coastal Flood Watch",
	"CFW": "Coastal Flood Warning",
	"DMO": "Practice/Demo Warning",
	"DSW": "Dust Storm Warning",
	"EAN": "Emergency Action Notification (National only)",
	"EAT": "Emergency Action Termination (National only)",
	"EQW": "Earthquake Warning",
	"EVI": "Evacuation Immediate",
	"FFA": "Flash Flood Watch",
	"FFS": "Flash Flood Statement",
	"FFW": "Flash Flood Warning",
	"FLA": "Flood Watch",
	"FLS": "Flood Statement",
	"FLW": "Flood Warning",
	"FRW": "Fire Warning",
	"HLS": "Hurricane Statement",
	"HMW": "Hazardous Materials Warning",
	"HUA": "Hurricane Watch",
	"HUW": "Hurricane Warning",
	"HWA": "High Wind Watch",
	"HWW": "High Wind Warning",
	"LAE": "Local Area Emergency",
	"LEW": "Law Enforcement Warning",
	"NIC": "National Information Center",
	"NMN": "Network Message Notification",
	"NPT": "National Periodic Test",
	"NST": "National Silent Test",
	"NUW": "Nuclear Power Plant Warning",
	"RHW": "Radiological Hazard Warning",
	"RMT": "Required Monthly Test",
	"RWT": "Required Weekly Test",
	"SMW": "Special Marine Warning",
	"SPS": "Special Weather Statement",
	"SPW": "Shelter In Place Warning",
	"SVA": "Severe Thunderstorm Watch",
	"SVR": "Severe Thunderstorm Warning",
	"SVS": "Severe Weather Statement",
	"TOA": "Tornado Watch",
	"TOE": "911 Telephone Outage Emergency",
	"TOR": "Tornado Warning",
	"TRA": "Tropical Storm Watch",
	"TRW": "Tropical Storm Warning",
	"TSA": "Tsunami Watch",
	"TSW": "Tsunami Warning",
	"TXB": "Transmitter Backup On",
	"TXF": "Transmitter Carrier Off",
	"TXO": "Transmitter Carrier On",
	"TXP": "Transmitter Primary On",
	"VOW": "Volcano Warning",
	"WSA": "Winter Storm Watch",
	"WSW": "Winter Storm Warning",
}

var nwisDetails = map[string]string{
	"ADR": "A non-emergency message providing updated information about an event in progress, an event that has expired or concluded early, pre-event preparation or mitigation activities, post-event recovery operations, or other administrative matters pertaining to the Emergency Alert System.",
	"AVA": "A message issued by authorized officials when conditions are forecast to become favorable for natural or human-triggered avalanches that could affect roadways, structures, or backcountry activities.",
	"AVW": "A warning of current or imminent avalanche activity when avalanche danger is considered high or extreme.",
	"CAE": "An emergency message, based on established criteria, about a missing child believed to be abducted.",
	"CDW": "A warning of an event that presents a danger to a significant civilian population.",
	"CEM": "An emergency message regarding an in-progress or imminent significant threat(s) to public safety and/or property.",
	"EQW": "A warning of current or imminent earthquake activity.",
	"EVI": "A warning where immediate evacuation is recommended or ordered according to state law or local ordinance.",
	"FRW": "A warning of a spreading structural fire or wildfire that threatens a populated area.",
	"HMW": "A warning of the release of a non-radioactive hazardous material (such as a flammable gas, toxic chemical, or biological agent) that may recommend evacuation (for an explosion, fire or oil spill hazard) or shelter-in-place (for a toxic fume hazard).",
	"LAE": "An emergency message that defines an event that, by itself, does not pose a significant threat to public safety and/or property.",
	"LEW": "A warning of a bomb explosion, riot, or other criminal event (e.g. a jailbreak).",
	"NMN": "Not yet defined and not in suite of products for relay by NWS.",
	"NUW": "A warning of an event at a nuclear power plant classified as a Site Area Emergency or General Emergency by the Nuclear Regulatory Commission (NRC).",
	"RHW": "A warning of the loss, discovery, or release of a radiological hazard.",
	"SPW": "A warning of an event where the public is recommended to shelter in place (go inside, close doors and windows, turn off air conditioning or heating systems, and turn on the radio or TV for more information).",
	"TOE": "An emergency message that defines a local or state 9-1-1 telephone network outage by geographic area or telephone exchange.",
	"VOW": "A warning of current or imminent volcanic activity.",
}

var sameDefinitions = map[string]string{
	"Warning":   "Warning messages are issued for those events that alone pose a significant threat to public safety and/or property, probability of occurrence and location is high, and the onset time is relatively short.",
	"Watch":     "Watch messages are issued for those events that meet the classification of a warning, but either the onset time, probability of occurrence, or location is uncertain.",
	"Emergency": "Emergency messages are issued for those events that by themselves would not kill or injure or do property damage but indirectly may cause other things to happen that result in a hazard.",
	"Statement": "Statement messages contain follow up information for warning, watch, or emergency messages.",
}
