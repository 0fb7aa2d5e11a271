package mapgen

// names is the dictionary planet names are drawn from without
// replacement at map-generation time (§4.2 rule 5). Once exhausted,
// the generator falls back to "Planet-N".
var names = []string{
	"Aldebar", "Borealis", "Cresthold", "Duskmere", "Eryndor", "Felspire",
	"Gravenhall", "Hexmoor", "Isenfall", "Jutenheim", "Korvath", "Lumenreach",
	"Morrowind", "Nexarium", "Obsidia", "Pyrrhus", "Quintara", "Ravenscar",
	"Solterra", "Thornwake", "Umbraxis", "Verdant", "Wyrmcrest", "Xerathis",
	"Ysolde", "Zephyris", "Ashfall", "Brimstone", "Cindermoor", "Driftwood",
	"Emberlight", "Frosthaven", "Glasswick", "Hollowreach", "Ironspire",
	"Jadewatch", "Kravenwood", "Lowmarsh", "Mournvale", "Northwind",
	"Oakenshield", "Palewater", "Quarrystone", "Redstone", "Saltmire",
	"Thistledown", "Underpass", "Vanguard", "Westmark", "Yewgrove",
	"Basalt", "Cobaltreach", "Direwatch", "Eastfall", "Farrow", "Greystone",
	"Highmoor", "Ivoryhold", "Kettlewick", "Lostholm", "Mistwood", "Nightshade",
	"Oreland", "Pinehaven", "Quietbrook", "Ridgewood", "Stormholt", "Tanglewood",
	"Upland", "Valewatch", "Wraithmoor", "Yarrow", "Zealspire", "Amberfall",
	"Blackridge", "Copperfield", "Deepmarsh", "Edgewood", "Foxglen",
	"Goldenreach", "Harrowgate", "Inkwell", "Juniper", "Killarn", "Larkspur",
	"Marrowstone", "Nettlewick", "Orrinfield",
}
