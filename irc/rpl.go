package irc

// IRC numeric replies handled by the client core.
const (
	RplWelcome  = "001" // :Welcome message
	RplYourhost = "002" // :Your host is...
	RplCreated  = "003" // :This server was created...
	RplMyinfo   = "004" // <servername> <version> <umodes> <chan modes>
	RplIsupport = "005" // 1*13<TOKEN[=value]> :are supported by this server

	RplAway     = "301" // <nick> :<away message>
	RplUnaway   = "305" // :You are no longer marked as being away
	RplNowaway  = "306" // :You have been marked as being away
	RplEndofwho = "315" // <name> :End of WHO list

	RplChannelmodeis = "324" // <channel> <modes> <mode params>
	RplNotopic       = "331" // <channel> :No topic set
	RplTopic         = "332" // <channel> <topic>
	RplTopicwhotime  = "333" // <channel> <nick> <setat>
	RplNamreply      = "353" // <=/*/@> <channel> :1*(@/ /+user)
	RplEndofnames    = "366" // <channel> :End of names list

	RplMotd      = "372" // :- <text>
	RplMotdstart = "375" // :- <servername> Message of the day -
	RplEndofmotd = "376" // :End of MOTD command

	ErrNosuchnick     = "401" // <nick> :No such nick/channel
	ErrNosuchchannel  = "403" // <channel> :No such channel
	ErrUnknowncommand = "421" // <command> :Unknown command
	ErrNomotd         = "422" // :MOTD file missing
	ErrNicknameinuse  = "433" // <nick> :Nickname in use
)
