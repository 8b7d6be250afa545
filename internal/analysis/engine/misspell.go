package engine

// misspellings is the curated table of common misspellings with their fixed,
// ranked suggestion lists. The fallback checker only ever flags tokens found
// here, which bounds its false-positive rate at zero for anything else.
var misspellings = map[string][]string{
	"calulate":    {"calculate"},
	"calulated":   {"calculated"},
	"calulation":  {"calculation"},
	"recieve":     {"receive"},
	"recieved":    {"received"},
	"recieves":    {"receives"},
	"seperate":    {"separate"},
	"seperated":   {"separated"},
	"seperately":  {"separately"},
	"definately":  {"definitely"},
	"occured":     {"occurred"},
	"occurence":   {"occurrence"},
	"occurences":  {"occurrences"},
	"teh":         {"the"},
	"hte":         {"the"},
	"adn":         {"and"},
	"nad":         {"and"},
	"taht":        {"that"},
	"thier":       {"their"},
	"wich":        {"which"},
	"wihch":       {"which"},
	"wrold":       {"world"},
	"wolrd":       {"world"},
	"lenght":      {"length"},
	"heigth":      {"height"},
	"widht":       {"width"},
	"retrun":      {"return"},
	"reutrn":      {"return"},
	"funciton":    {"function"},
	"fucntion":    {"function"},
	"functon":     {"function"},
	"varaible":    {"variable"},
	"varible":     {"variable"},
	"paramter":    {"parameter"},
	"paramaters":  {"parameters"},
	"arguement":   {"argument"},
	"arguements":  {"arguments"},
	"defualt":     {"default"},
	"defalut":     {"default"},
	"intial":      {"initial"},
	"initalize":   {"initialize"},
	"initalized":  {"initialized"},
	"iniitalize":  {"initialize"},
	"asign":       {"assign"},
	"asigned":     {"assigned"},
	"commited":    {"committed"},
	"commiting":   {"committing"},
	"comitted":    {"committed"},
	"succesful":   {"successful"},
	"succesfully": {"successfully"},
	"sucess":      {"success"},
	"sucessful":   {"successful"},
	"accross":     {"across"},
	"untill":      {"until"},
	"allways":     {"always"},
	"posible":     {"possible"},
	"proccess":    {"process"},
	"proccessing": {"processing"},
	"processs":    {"process"},
	"reponse":     {"response"},
	"repsonse":    {"response"},
	"respone":     {"response"},
	"requst":      {"request"},
	"reqeust":     {"request"},
	"messsage":    {"message"},
	"mesage":      {"message"},
	"databse":     {"database"},
	"datbase":     {"database"},
	"conection":   {"connection"},
	"connecton":   {"connection"},
	"conenction":  {"connection"},
	"enviroment":  {"environment"},
	"enviornment": {"environment"},
	"dependancy":  {"dependency"},
	"dependancies": {"dependencies"},
	"existance":   {"existence"},
	"persistance": {"persistence"},
	"maintainance": {"maintenance"},
	"maintenence": {"maintenance"},
	"implemenation": {"implementation"},
	"implmentation": {"implementation"},
	"compatability": {"compatibility"},
	"compatable":  {"compatible"},
	"configration": {"configuration"},
	"configuraton": {"configuration"},
	"authenticaton": {"authentication"},
	"authorizaton": {"authorization"},
	"tempalte":    {"template"},
	"templete":    {"template"},
	"docuemnt":    {"document"},
	"documnet":    {"document"},
	"accomodate":  {"accommodate"},
	"neccessary":  {"necessary"},
	"necessery":   {"necessary"},
	"recomend":    {"recommend"},
	"recomended":  {"recommended"},
	"transfered":  {"transferred"},
	"useable":     {"usable"},
	"visble":      {"visible"},
	"availble":    {"available"},
	"avaliable":   {"available"},
	"avalable":    {"available"},
	"similiar":    {"similar"},
	"simmilar":    {"similar"},
	"excecute":    {"execute"},
	"exectue":     {"execute"},
	"overide":     {"override"},
	"overriden":   {"overridden"},
	"propogate":   {"propagate"},
	"propogated":  {"propagated"},
	"supress":     {"suppress"},
	"supressed":   {"suppressed"},
	"threshhold":  {"threshold"},
	"timout":      {"timeout"},
	"verison":     {"version"},
	"verions":     {"versions"},
}

// LookupMisspelling returns the curated suggestions for a token, if any.
// Matching is case-insensitive; the token must already be lowercased by the
// caller (Tokenize preserves case, checkers fold before the lookup).
func LookupMisspelling(folded string) ([]string, bool) {
	s, ok := misspellings[folded]
	return s, ok
}
