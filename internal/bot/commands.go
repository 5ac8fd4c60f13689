package bot

import "github.com/bwmarrin/discordgo"

func commandDefs() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "catches",
			Description: "Show recorded catches",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "fish",
					Description: "Only this fish key",
					Required:    false,
				},
			},
		},
		{
			Name:        "familiar",
			Description: "Check whether a fish's minigame can be skipped",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "fish",
					Description: "Fish key",
					Required:    true,
				},
			},
		},
	}
}
